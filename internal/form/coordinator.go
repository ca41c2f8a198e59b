package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Alert messages for blocked submissions.
const (
	NoOrdersMessage  = "Agrega al menos una orden antes de procesar."
	PreSubmitMessage = "No se pudo guardar la orden pendiente. No se procesaron las órdenes."
)

var (
	ErrInvalidForm = errors.New("add-order form is incomplete")
	ErrNoOrders    = errors.New("no orders to process")
	ErrPreSubmit   = errors.New("pending order could not be saved")
)

// Submitter performs the two form submissions.
type Submitter interface {
	AddOrder(ctx context.Context, f Fields) error
	ProcessOrders(ctx context.Context) error
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// Coordinator guards both forms.
type Coordinator struct {
	submitter Submitter
	alerter   Alerter
	logger    *zap.Logger
}

// NewCoordinator creates a coordinator.
func NewCoordinator(submitter Submitter, alerter Alerter, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		submitter: submitter,
		alerter:   alerter,
		logger:    logger,
	}
}

// SubmitAdd submits the add-order form, or alerts and cancels when it is invalid.
func (c *Coordinator) SubmitAdd(ctx context.Context, f Fields) error {
	if !f.Valid() {
		c.alerter.Alert(RequiredMessage)
		return ErrInvalidForm
	}
	if err := c.submitter.AddOrder(ctx, f); err != nil {
		c.logger.Error("add order failed", zap.Error(err))
		return err
	}
	return nil
}

// SubmitProcess handles the process-orders form. With no rows and an invalid
// form nothing is sent. A valid form is saved first and the process request only
// goes out once that save succeeded.
func (c *Coordinator) SubmitProcess(ctx context.Context, f Fields, rowCount int) error {
	valid := f.Valid()
	if rowCount == 0 && !valid {
		c.alerter.Alert(NoOrdersMessage)
		return ErrNoOrders
	}

	if valid {
		if err := c.submitter.AddOrder(ctx, f); err != nil {
			c.logger.Error("pre-submission of pending order failed", zap.Error(err))
			c.alerter.Alert(PreSubmitMessage)
			return fmt.Errorf("%w: %v", ErrPreSubmit, err)
		}
		c.logger.Info("pending order saved before processing", zap.String("description", f.Description))
	}

	return c.submitter.ProcessOrders(ctx)
}

// CompletedStatus is the final order status.
const CompletedStatus = "completada"

// AllCompleted reports whether every status reads "completada", ignoring case.
// It is true for an empty list.
func AllCompleted(statuses []string) bool {
	for _, s := range statuses {
		if !strings.EqualFold(strings.TrimSpace(s), CompletedStatus) {
			return false
		}
	}
	return true
}

// RefreshVisible reports whether the manual refresh control should be shown:
// only while some order is not yet completed.
func RefreshVisible(statuses []string) bool {
	return !AllCompleted(statuses)
}
