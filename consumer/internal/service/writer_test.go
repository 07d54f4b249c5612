package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/common/record"
)

type fakeStore struct {
	orders   map[string]*models.OrderEvent
	upserts  int
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]*models.OrderEvent)}
}

func (s *fakeStore) UpsertOrder(_ context.Context, event *models.OrderEvent) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.upserts++
	s.orders[event.OrderID] = event
	return nil
}

func rawBatch(t *testing.T, events ...*models.OrderEvent) *messaging.Message {
	t.Helper()

	var batch record.Batch
	for i, e := range events {
		raw, err := json.Marshal(e)
		require.NoError(t, err)
		batch.Records = append(batch.Records, record.InboundRecord{
			RecordID: events[i].OrderID,
			Data:     base64.StdEncoding.EncodeToString(raw),
		})
	}

	data, err := json.Marshal(batch)
	require.NoError(t, err)
	return &messaging.Message{Subject: messaging.SubjectOrdersRaw, Data: data}
}

func sampleEvent(orderID string) *models.OrderEvent {
	return &models.OrderEvent{
		CustomerID: "cust-9",
		OrderID:    orderID,
		OrderDate:  "2024-03-05T07:00:00",
		Status:     "placed",
		PurchaseDetails: &models.PurchaseDetails{
			PaymentType: "card",
			Amount:      models.DecimalString("48.27"),
			Currency:    "EUR",
			Instalments: 1,
		},
	}
}

func TestHandleMessage_WritesEveryRecord(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)

	msg := rawBatch(t, sampleEvent("ord-1"), sampleEvent("ord-2"))
	require.NoError(t, w.HandleMessage(context.Background(), msg))

	assert.Equal(t, 2, store.upserts)
	require.Contains(t, store.orders, "ord-1")
	assert.Equal(t, models.DecimalString("48.27"), store.orders["ord-1"].PurchaseDetails.Amount)

	stats := w.Health()
	assert.Equal(t, uint64(1), stats.Batches)
	assert.Equal(t, uint64(2), stats.Written)
	assert.Equal(t, uint64(0), stats.Failed)
}

func TestHandleMessage_RedeliveryOverwrites(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)

	update := sampleEvent("ord-1")
	update.Status = "shipped"

	require.NoError(t, w.HandleMessage(context.Background(), rawBatch(t, sampleEvent("ord-1"))))
	require.NoError(t, w.HandleMessage(context.Background(), rawBatch(t, update)))

	assert.Equal(t, 2, store.upserts)
	require.Len(t, store.orders, 1)
	assert.Equal(t, "shipped", store.orders["ord-1"].Status)
}

func TestHandleMessage_DecodeFailureReturnsError(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)

	batch := record.Batch{Records: []record.InboundRecord{
		{RecordID: "r1", Data: "%%%not-base64%%%"},
	}}
	data, err := json.Marshal(batch)
	require.NoError(t, err)

	err = w.HandleMessage(context.Background(), &messaging.Message{Data: data})
	require.Error(t, err)

	var decodeErr *record.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, uint64(1), w.Health().Failed)
	assert.Empty(t, store.orders)
}

func TestHandleMessage_StoreFailureReturnsError(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("connection refused")
	w := NewWriter(store, nil)

	err := w.HandleMessage(context.Background(), rawBatch(t, sampleEvent("ord-1")))
	require.Error(t, err)
	assert.Equal(t, uint64(1), w.Health().Failed)
}
