package workshop

import "github.com/jetsetgo/taller-orders/internal/catalog"

// DefaultTasks are the typical jobs suggested in the description field.
func DefaultTasks() []catalog.Task {
	return []catalog.Task{
		// Priority 1 (low)
		{Name: "Lavado general", Time: 40, Priority: 1},
		{Name: "Revisión general básica", Time: 50, Priority: 1},
		{Name: "Inspección visual externa", Time: 35, Priority: 1},
		{Name: "Limpieza de filtros", Time: 45, Priority: 1},
		{Name: "Chequeo de niveles", Time: 30, Priority: 1},
		{Name: "Revisión de luces", Time: 30, Priority: 1},
		{Name: "Aspirado interior", Time: 40, Priority: 1},
		{Name: "Lubricación de partes menores", Time: 50, Priority: 1},
		{Name: "Lavado de motor superficial", Time: 45, Priority: 1},

		// Priority 2 (medium)
		{Name: "Cambio de aceite", Time: 50, Priority: 2},
		{Name: "Cambio de bujías", Time: 55, Priority: 2},
		{Name: "Alineación y balanceo", Time: 70, Priority: 2},
		{Name: "Cambio de llanta", Time: 40, Priority: 2},
		{Name: "Revisión de suspensión", Time: 65, Priority: 2},
		{Name: "Ajuste de dirección", Time: 60, Priority: 2},
		{Name: "Escaneo electrónico", Time: 45, Priority: 2},
		{Name: "Cambio de filtro de aire", Time: 50, Priority: 2},
		{Name: "Purgado de sistema de frenos", Time: 70, Priority: 2},

		// Priority 3 (high)
		{Name: "Revisión de frenos completa", Time: 90, Priority: 3},
		{Name: "Diagnóstico de motor crítico", Time: 120, Priority: 3},
		{Name: "Reparación de fugas", Time: 100, Priority: 3},
		{Name: "Reparación del sistema eléctrico", Time: 110, Priority: 3},
		{Name: "Cambio de bomba de agua", Time: 95, Priority: 3},
		{Name: "Ajuste de inyección", Time: 100, Priority: 3},
		{Name: "Sistema de refrigeración", Time: 105, Priority: 3},
		{Name: "Revisión de transmisión", Time: 115, Priority: 3},
		{Name: "Frenos ABS – diagnóstico", Time: 120, Priority: 3},
	}
}
