package delivery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/delivery"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/notification"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliveryRepo struct {
	deliveries map[string]delivery.Delivery
	nextID     int
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{deliveries: make(map[string]delivery.Delivery)}
}

func (f *fakeDeliveryRepo) Create(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	f.nextID++
	d.ID = fmt.Sprintf("del-%d", f.nextID)
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	f.deliveries[d.ID] = d
	return d, nil
}

func (f *fakeDeliveryRepo) GetByID(ctx context.Context, id string) (delivery.Delivery, error) {
	d, ok := f.deliveries[id]
	if !ok {
		return delivery.Delivery{}, delivery.ErrDeliveryNotFound
	}
	return d, nil
}

func (f *fakeDeliveryRepo) List(ctx context.Context, filter delivery.DeliveryFilter) ([]delivery.Delivery, int64, error) {
	var out []delivery.Delivery
	for _, d := range f.deliveries {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeliveryRepo) Update(ctx context.Context, d delivery.Delivery) error {
	existing, ok := f.deliveries[d.ID]
	if !ok {
		return delivery.ErrDeliveryNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.BilledAt = existing.BilledAt
	d.PaidAt = existing.PaidAt
	d.UpdatedAt = time.Now().UTC()
	f.deliveries[d.ID] = d
	return nil
}

func (f *fakeDeliveryRepo) UpdateInvoiceStatus(ctx context.Context, d delivery.Delivery) error {
	existing, ok := f.deliveries[d.ID]
	if !ok {
		return delivery.ErrDeliveryNotFound
	}
	existing.InvoiceStatus = d.InvoiceStatus
	existing.BilledAt = d.BilledAt
	existing.PaidAt = d.PaidAt
	existing.UpdatedAt = time.Now().UTC()
	f.deliveries[d.ID] = existing
	return nil
}

func (f *fakeDeliveryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.deliveries[id]; !ok {
		return delivery.ErrDeliveryNotFound
	}
	delete(f.deliveries, id)
	return nil
}

func (f *fakeDeliveryRepo) ListByDriver(ctx context.Context, driverID string, filter delivery.DeliveryFilter) ([]delivery.Delivery, int64, error) {
	var out []delivery.Delivery
	for _, d := range f.deliveries {
		if d.AssignedDriverID != nil && *d.AssignedDriverID == driverID {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

type fakeNotifier struct {
	enqueued []notification.CreateNotificationRequest
}

func (f *fakeNotifier) Enqueue(req notification.CreateNotificationRequest) error {
	f.enqueued = append(f.enqueued, req)
	return nil
}

func (f *fakeNotifier) List(ctx context.Context, recipientID string, filter notification.NotificationFilter) ([]notification.NotificationResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id string, recipientID string) error {
	return nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, recipientID string) error {
	return nil
}

func (f *fakeNotifier) Stop() {}

func adminIdentity() auth.Identity {
	return auth.Identity{UserID: "admin-1", Name: "Back Office", Role: user.RoleAdmin}
}

func driverIdentity() auth.Identity {
	return auth.Identity{UserID: "0192d7a0-1111-7abc-8def-000000000001", Name: "Driver", Role: user.RoleDriver}
}

func validRequest() delivery.DeliveryRequest {
	return delivery.DeliveryRequest{
		Title:           "Machine parts to Bekasi",
		CustomerName:    "PT Maju Jaya",
		DeliveryAddress: "Jl. Industri 12, Bekasi",
		Status:          delivery.StatusPending,
		BaseCharge:      150000,
		DistanceCharge:  75000,
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc := NewDeliveryService(newFakeDeliveryRepo(), &fakeNotifier{})

	_, err := svc.Create(context.Background(), driverIdentity(), validRequest())
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)

	_, err = svc.Create(context.Background(), auth.Identity{}, validRequest())
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestCreateDefaultsInvoiceToUnbilled(t *testing.T) {
	svc := NewDeliveryService(newFakeDeliveryRepo(), &fakeNotifier{})

	resp, err := svc.Create(context.Background(), adminIdentity(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, delivery.InvoiceUnbilled, resp.InvoiceStatus)
	assert.Equal(t, 225000.0, resp.TotalCharge)
	assert.Nil(t, resp.BilledAt)
}

func TestCreateWithDriverNotifiesAssignment(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewDeliveryService(newFakeDeliveryRepo(), notifier)

	req := validRequest()
	driverID := driverIdentity().UserID
	req.AssignedDriverID = &driverID

	_, err := svc.Create(context.Background(), adminIdentity(), req)
	require.NoError(t, err)

	require.Len(t, notifier.enqueued, 1)
	assert.Equal(t, driverID, notifier.enqueued[0].RecipientID)
	assert.Equal(t, notification.TypeDeliveryAssignment, notifier.enqueued[0].Type)
}

func TestInvoiceTransitionStampsBilledAt(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := NewDeliveryService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminIdentity(), validRequest())
	require.NoError(t, err)

	billed, err := svc.UpdateInvoiceStatus(ctx, adminIdentity(), created.ID, delivery.InvoiceStatusRequest{InvoiceStatus: delivery.InvoiceBilled})
	require.NoError(t, err)

	assert.Equal(t, delivery.InvoiceBilled, billed.InvoiceStatus)
	assert.NotNil(t, billed.BilledAt)
	assert.Nil(t, billed.PaidAt)
}

func TestInvoicePaidStampsBothTimestamps(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := NewDeliveryService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminIdentity(), validRequest())
	require.NoError(t, err)

	paid, err := svc.UpdateInvoiceStatus(ctx, adminIdentity(), created.ID, delivery.InvoiceStatusRequest{InvoiceStatus: delivery.InvoicePaid})
	require.NoError(t, err)

	assert.Equal(t, delivery.InvoicePaid, paid.InvoiceStatus)
	assert.NotNil(t, paid.BilledAt)
	assert.NotNil(t, paid.PaidAt)
}

func TestInvoiceBackToUnbilledClearsTimestamps(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := NewDeliveryService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminIdentity(), validRequest())
	require.NoError(t, err)

	_, err = svc.UpdateInvoiceStatus(ctx, adminIdentity(), created.ID, delivery.InvoiceStatusRequest{InvoiceStatus: delivery.InvoicePaid})
	require.NoError(t, err)

	reset, err := svc.UpdateInvoiceStatus(ctx, adminIdentity(), created.ID, delivery.InvoiceStatusRequest{InvoiceStatus: delivery.InvoiceUnbilled})
	require.NoError(t, err)

	assert.Nil(t, reset.BilledAt)
	assert.Nil(t, reset.PaidAt)
}

func TestInvoiceStatusRejectsUnknownValue(t *testing.T) {
	svc := NewDeliveryService(newFakeDeliveryRepo(), &fakeNotifier{})

	_, err := svc.UpdateInvoiceStatus(context.Background(), adminIdentity(), "del-1", delivery.InvoiceStatusRequest{InvoiceStatus: "overdue"})
	assert.Error(t, err)
}

func TestDriverSeesOnlyAssignedDeliveries(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := NewDeliveryService(repo, &fakeNotifier{})
	ctx := context.Background()

	driverID := driverIdentity().UserID
	assigned := validRequest()
	assigned.AssignedDriverID = &driverID
	created, err := svc.Create(ctx, adminIdentity(), assigned)
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminIdentity(), validRequest())
	require.NoError(t, err)

	mine, total, err := svc.ListMine(ctx, driverIdentity(), delivery.DeliveryFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	got, err := svc.GetByID(ctx, driverIdentity(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestDriverCannotReadUnassignedDelivery(t *testing.T) {
	svc := NewDeliveryService(newFakeDeliveryRepo(), &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminIdentity(), validRequest())
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, driverIdentity(), created.ID)
	assert.ErrorIs(t, err, delivery.ErrDeliveryNotFound)
}

func TestUpdateNotifiesOnlyOnFreshAssignment(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewDeliveryService(newFakeDeliveryRepo(), notifier)
	ctx := context.Background()

	driverID := driverIdentity().UserID
	req := validRequest()
	req.AssignedDriverID = &driverID

	created, err := svc.Create(ctx, adminIdentity(), req)
	require.NoError(t, err)
	require.Len(t, notifier.enqueued, 1)

	// Editing without changing the driver does not notify again.
	req.Notes = strPtr("fragile cargo")
	_, err = svc.Update(ctx, adminIdentity(), created.ID, req)
	require.NoError(t, err)
	assert.Len(t, notifier.enqueued, 1)
}

func strPtr(s string) *string { return &s }
