package api

import "html/template"

// pageData feeds the index template.
type pageData struct {
	Tasks  any
	Orders []orderRow
	Logs   []string

	Processing   bool
	AllCompleted bool
}

type orderRow struct {
	ID          int
	Description string
	PrepTime    int
	Priority    int
	Worker      string
	Status      string
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Taller de autos</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f5f5f5;color:#333;line-height:1.6}

/* Header */
.hdr{background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:#fff;padding:14px 20px;display:flex;align-items:center;justify-content:space-between;position:sticky;top:0;z-index:100}
.hdr h1{font-size:18px;font-weight:600}
.hdr-right{display:flex;align-items:center;font-size:13px;gap:6px}
.hdr-dot{width:10px;height:10px;border-radius:50%;display:inline-block}
.dot-green{background:#22c55e}.dot-yellow{background:#f59e0b}

/* Content */
.content{max-width:900px;margin:0 auto;padding:20px}
.card{background:#fff;border-radius:8px;padding:20px;margin-bottom:16px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card h2{font-size:16px;margin-bottom:12px;padding-bottom:8px;border-bottom:1px solid #eee}

/* Buttons */
.btn{display:inline-flex;align-items:center;gap:6px;padding:8px 16px;border-radius:6px;border:none;cursor:pointer;font-size:14px;font-weight:500;transition:all .2s;line-height:1.4}
.btn-primary{background:#667eea;color:#fff}.btn-primary:hover{background:#5a67d8}
.btn-secondary{background:#e5e7eb;color:#374151}.btn-secondary:hover{background:#d1d5db}
.btn-danger{background:#fff;color:#ef4444;border:1px solid #ef4444}.btn-danger:hover{background:#fef2f2}
.btn-row{display:flex;gap:8px;flex-wrap:wrap;margin-top:12px}

/* Forms */
.form-group{margin-bottom:14px;position:relative}
.form-group label{display:block;font-size:13px;font-weight:500;margin-bottom:4px;color:#555}
.form-group input,.form-group select{width:100%;padding:8px 12px;border:1px solid #ddd;border-radius:6px;font-size:14px}
.form-group input:focus,.form-group select:focus{outline:none;border-color:#667eea;box-shadow:0 0 0 3px rgba(102,126,234,.15)}
.form-row{display:grid;grid-template-columns:1fr 1fr;gap:12px}
.desc-wrap{display:flex;gap:6px}

/* Suggestions */
.suggestions{display:none;position:absolute;left:0;right:0;z-index:10;list-style:none;background:#fff;border:1px solid #ddd;border-radius:6px;max-height:240px;overflow-y:auto;box-shadow:0 2px 8px rgba(0,0,0,.12)}
.suggestions li{padding:6px 12px;cursor:pointer;font-size:14px}
.suggestions li:hover{background:#f3f4f6}
.suggestions li.empty{color:#999;cursor:default}

/* Orders */
.orders-wrap{overflow-x:auto}
table{width:100%;border-collapse:collapse;font-size:13px}
th,td{padding:8px;border-bottom:1px solid #f0f0f0;text-align:left}
th{font-weight:600;color:#555;font-size:12px;text-transform:uppercase;letter-spacing:.05em}

/* Logs */
.log-container{background:#1a1a2e;border-radius:8px;padding:16px;font-family:'SF Mono','Cascadia Code','Courier New',monospace;font-size:13px;max-height:300px;overflow-y:auto;color:#a0aec0}
.log-entry{padding:2px 0;white-space:pre-wrap;word-break:break-word}
</style>
</head>
<body>
<div class="hdr">
 <h1>Taller de autos</h1>
 <div class="hdr-right">
  {{if .Processing}}<span class="hdr-dot dot-yellow"></span><span>Procesando</span>{{else}}<span class="hdr-dot dot-green"></span><span>Listo</span>{{end}}
 </div>
</div>

<div class="content">
 <div class="card">
  <h2>Nueva orden</h2>
  <form id="add-order-form" action="/add-order" method="post">
   <div class="form-group">
    <label for="description">Descripción</label>
    <div class="desc-wrap">
     <input id="description" name="description" type="text" autocomplete="off">
     <button id="btn-desc-dropdown" class="btn btn-secondary" type="button">&#9662;</button>
    </div>
    <ul id="order-suggestions" class="suggestions"></ul>
   </div>
   <div class="form-row">
    <div class="form-group">
     <label for="prep_time">Tiempo de preparación</label>
     <input id="prep_time" name="prep_time" type="number" min="1">
    </div>
    <div class="form-group">
     <label for="priority">Prioridad</label>
     <select id="priority" name="priority">
      <option value="">--</option>
      <option value="1">1 (baja)</option>
      <option value="2">2 (media)</option>
      <option value="3">3 (alta)</option>
     </select>
    </div>
   </div>
   <div class="btn-row">
    <button class="btn btn-primary" type="submit">Agregar orden</button>
   </div>
  </form>
  <div class="btn-row">
   <form id="process-orders-form" action="/process-orders" method="post">
    <button class="btn btn-primary" type="submit">Procesar órdenes</button>
   </form>
   <form id="reset-form" action="/reset" method="post">
    <button class="btn btn-danger" type="submit">Reiniciar</button>
   </form>
  </div>
 </div>

 <div class="card">
  <h2>Órdenes</h2>
  <div class="orders-wrap">
   <table id="orders-table">
    <thead><tr><th>ID</th><th>Descripción</th><th>Tiempo</th><th>Prioridad</th><th>Taller</th><th class="col-status">Estado</th></tr></thead>
    <tbody id="orders-tbody">
    {{range .Orders}}<tr><td>{{.ID}}</td><td>{{.Description}}</td><td>{{.PrepTime}}</td><td>{{.Priority}}</td><td>{{.Worker}}</td><td class="col-status">{{.Status}}</td></tr>
    {{end}}</tbody>
   </table>
  </div>
  <div class="btn-row">
   <button id="btn-refresh" class="btn btn-secondary" type="button"{{if .AllCompleted}} style="display:none"{{end}}>Actualizar</button>
  </div>
 </div>

 <div class="card">
  <h2>Bitácora</h2>
  <div id="logs-box" class="log-container">
  {{range .Logs}}<div class="log-entry">{{.}}</div>
  {{end}}</div>
 </div>
</div>

<script id="tasks-data" type="application/json">{{.Tasks}}</script>
<script src="/static/panel.js"></script>
</body>
</html>`
