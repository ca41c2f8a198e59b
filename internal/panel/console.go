package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jetsetgo/taller-orders/internal/form"
	"github.com/jetsetgo/taller-orders/internal/status"
	"github.com/jetsetgo/taller-orders/internal/suggest"
)

// Refresher forces an immediate status update.
type Refresher interface {
	Refresh()
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func()

func (f RefreshFunc) Refresh() { f() }

// StatusSource reports the status feed's connection. Poller and Watcher both
// satisfy it.
type StatusSource interface {
	Status() status.ConnectionStatus
}

var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Comandos:
  desc <texto>   escribir la descripción
  focus | blur   enfocar / salir del campo descripción
  pick <n>       elegir la sugerencia n
  click          clic fuera de la lista
  time <n>       tiempo de preparación
  prio <1-3>     prioridad
  add            agregar orden
  process        procesar órdenes
  refresh        actualizar (si está visible)
  scroll <n>     desplazar la bitácora
  show           mostrar la página
  status         estado de la conexión
  quit           salir`

// Console maps text commands onto page events.
type Console struct {
	page        *Page
	dropdown    *suggest.Dropdown
	coordinator *form.Coordinator
	refresher   Refresher
	renderer    *Renderer
	source      StatusSource
	logger      *zap.Logger
}

// NewConsole wires the page components together.
func NewConsole(page *Page, dropdown *suggest.Dropdown, coordinator *form.Coordinator, refresher Refresher, renderer *Renderer, logger *zap.Logger) *Console {
	return &Console{
		page:        page,
		dropdown:    dropdown,
		coordinator: coordinator,
		refresher:   refresher,
		renderer:    renderer,
		logger:      logger,
	}
}

// WatchStatus makes show and status report the feed's connection.
func (c *Console) WatchStatus(src StatusSource) {
	c.source = src
}

// Run reads commands from in until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.show()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			quit, err := c.Execute(ctx, line)
			if err != nil && errors.Is(err, ErrUnknownCommand) {
				c.renderer.Alert(err.Error())
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs one command line. It reports whether the console should stop.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(c.renderer.out, helpText)
	case "show":
		c.show()
	case "status":
		if c.source == nil {
			c.renderer.Alert("sin fuente de estado")
			return false, nil
		}
		c.renderer.Connection(c.source.Status())

	case "desc":
		c.page.SetDescription(arg)
		c.dropdown.Input(arg)
		c.showSuggestions()
	case "focus":
		c.dropdown.Focus(c.page.Description())
		c.showSuggestions()
	case "blur":
		c.dropdown.Commit(c.page.Description())
		c.dropdown.Blur()
	case "click":
		c.dropdown.ClickOutside(suggest.TargetOther)
	case "pick":
		n, err := strconv.Atoi(arg)
		if err != nil || !c.dropdown.PointerDown(n-1) {
			c.renderer.Alert("sugerencia no disponible")
			return false, nil
		}
		c.renderer.Render(c.page.Snapshot())
	case "time":
		c.page.SetPrepTimeText(arg)
	case "prio":
		c.page.SetPriorityText(arg)

	case "add":
		if err := c.coordinator.SubmitAdd(ctx, c.page.Fields()); err != nil {
			if !errors.Is(err, form.ErrInvalidForm) {
				c.renderer.Alert(err.Error())
			}
			return false, err
		}
		c.submitted("Orden agregada")
	case "process":
		if err := c.coordinator.SubmitProcess(ctx, c.page.Fields(), c.page.RowCount()); err != nil {
			if !errors.Is(err, form.ErrNoOrders) && !errors.Is(err, form.ErrPreSubmit) {
				c.renderer.Alert(err.Error())
			}
			return false, err
		}
		c.submitted("Procesamiento iniciado")
	case "refresh":
		if !c.page.RefreshVisible() {
			c.renderer.Alert("todas las órdenes están completadas")
			return false, nil
		}
		c.refresher.Refresh()
	case "scroll":
		n, err := strconv.Atoi(arg)
		if err != nil {
			c.renderer.Alert("scroll necesita un número")
			return false, nil
		}
		c.page.ScrollLogs(n)
		c.renderer.Render(c.page.Snapshot())

	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return false, nil
}

// submitted mirrors the page reload after a native form submission.
func (c *Console) submitted(notice string) {
	c.page.ClearForm()
	c.refresher.Refresh()
	c.renderer.Info(notice)
	c.logger.Debug("form submitted", zap.String("notice", notice))
}

func (c *Console) show() {
	c.renderer.Render(c.page.Snapshot())
	if c.source != nil {
		c.renderer.Connection(c.source.Status())
	}
}

func (c *Console) showSuggestions() {
	if c.dropdown.Visible() {
		c.renderer.Suggestions(c.dropdown.Listing())
	}
}
