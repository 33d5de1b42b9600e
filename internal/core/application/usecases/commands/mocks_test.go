package commands_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetAllInPendingStatus(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockClusterRepository struct{ mock.Mock }

func (m *MockClusterRepository) Add(ctx context.Context, c *cluster.Cluster) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClusterRepository) Update(ctx context.Context, c *cluster.Cluster) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClusterRepository) Assign(ctx context.Context, c *cluster.Cluster) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClusterRepository) Get(ctx context.Context, id kernel.UUID) (*cluster.Cluster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cluster.Cluster), args.Error(1)
}

func (m *MockClusterRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*cluster.Cluster, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cluster.Cluster), args.Error(1)
}

func (m *MockClusterRepository) GetAllUnassigned(ctx context.Context) ([]*cluster.Cluster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cluster.Cluster), args.Error(1)
}

func (m *MockClusterRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetActiveByCluster(ctx context.Context, clusterID kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, clusterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetActiveByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*offer.Offer, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetAllExpiredActive(ctx context.Context) ([]*offer.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) ClusterRepository() ports.ClusterRepository {
	args := m.Called()
	return args.Get(0).(ports.ClusterRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierDirectory) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockLocationDirectory struct{ mock.Mock }

func (m *MockLocationDirectory) GetPoint(ctx context.Context, id kernel.UUID) (kernel.GeoPoint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyOfferCreated(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockNotifier) NotifyOfferWithdrawn(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockNotifier) NotifyAdminEscalation(ctx context.Context, deliveryID kernel.UUID, reason string) error {
	args := m.Called(ctx, deliveryID, reason)
	return args.Error(0)
}

// testSettings are the dispatch knobs used across handler tests.
func testSettings() commands.AssignmentSettings {
	return commands.AssignmentSettings{
		MaxRetries:           3,
		MaxCourierDistanceKm: 10,
		OfferExpiry:          2 * time.Minute,
		CheckInterval:        30 * time.Second,
		RetryDelay:           time.Minute,
		PricePerKm:           2,
		EnableReassignment:   true,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockFactory(uow commands.UoW) *MockUoWFactory {
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory
}
