package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateHandler(
	factory *MockUoWFactory,
	couriers *MockCourierDirectory,
	locations *MockLocationDirectory,
	notifier *MockNotifier,
) commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(factory,
		services.NewCourierMatcher(), couriers, locations, notifier,
		testSettings(), testLogger())
}

func TestCreateDeliveryCommandHandler_Handle_PlacesCourierImmediately(t *testing.T) {
	ctx := t.Context()

	deliveryID := kernel.NewUUID()
	storeID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	dropoff := mustPoint(t, 30.0444, 31.2357)
	store := mustPoint(t, 30.0561, 31.2394)
	nearby := mustPoint(t, 30.0560, 31.2390)

	available, err := courier.NewCourier(courierID, kernel.NewUUID(), &nearby, true)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	clusterRepo := new(MockClusterRepository)
	offerRepo := new(MockOfferRepository)
	couriers := new(MockCourierDirectory)
	locations := new(MockLocationDirectory)
	notifier := new(MockNotifier)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("OfferRepository").Return(offerRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("ClusterRepository").Return(clusterRepo)

	var createdDelivery *delivery.Delivery
	deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).
		Run(func(args mock.Arguments) {
			createdDelivery = args.Get(1).(*delivery.Delivery)
		}).Return(nil).Once()

	locations.On("GetPoint", ctx, storeID).Return(store, nil)

	var createdLeg *cluster.Cluster
	clusterRepo.On("Add", ctx, mock.AnythingOfType("*cluster.Cluster")).
		Run(func(args mock.Arguments) {
			createdLeg = args.Get(1).(*cluster.Cluster)
		}).Return(nil).Once()

	couriers.On("GetAllAvailable", ctx).Return([]*courier.Courier{available}, nil).Once()
	clusterRepo.On("Assign", ctx, mock.AnythingOfType("*cluster.Cluster")).Return(nil).Once()
	deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()
	offerRepo.On("Add", ctx, mock.AnythingOfType("*offer.Offer")).Return(nil).Once()
	notifier.On("NotifyOfferCreated", ctx, mock.AnythingOfType("*offer.Offer")).Return(nil).Once()

	handler := newCreateHandler(newMockFactory(uow), couriers, locations, notifier)

	cmd, err := commands.NewCreateDeliveryCommand(deliveryID, kernel.NewUUID(),
		kernel.NewUUID(), dropoff, []commands.ClusterSpec{{SourceLocationID: &storeID}})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, createdDelivery)
	require.NotNil(t, createdLeg)
	assert.Equal(t, delivery.Assigned, createdDelivery.Status())
	assert.True(t, createdLeg.IsAssignedTo(courierID))
	assert.Equal(t, 1, createdLeg.Sequence())
	assert.Positive(t, createdLeg.DistanceKm())
	// Unpriced legs are priced by distance.
	assert.InDelta(t, createdLeg.DistanceKm()*testSettings().PricePerKm, createdLeg.Price(), 1e-9)

	uow.AssertExpectations(t)
	locations.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_NoCourier_CommitsPendingLeg(t *testing.T) {
	ctx := t.Context()

	deliveryID := kernel.NewUUID()
	dropoff := mustPoint(t, 30.0444, 31.2357)

	deliveryRepo := new(MockDeliveryRepository)
	clusterRepo := new(MockClusterRepository)
	couriers := new(MockCourierDirectory)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("ClusterRepository").Return(clusterRepo)

	deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()

	var createdLeg *cluster.Cluster
	clusterRepo.On("Add", ctx, mock.AnythingOfType("*cluster.Cluster")).
		Run(func(args mock.Arguments) {
			createdLeg = args.Get(1).(*cluster.Cluster)
		}).Return(nil).Once()
	couriers.On("GetAllAvailable", ctx).Return([]*courier.Courier{}, nil).Once()

	handler := newCreateHandler(newMockFactory(uow), couriers,
		new(MockLocationDirectory), new(MockNotifier))

	// No cluster specs: a single direct-to-customer leg is created.
	cmd, err := commands.NewCreateDeliveryCommand(deliveryID, kernel.NewUUID(),
		kernel.NewUUID(), dropoff, nil)
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, createdLeg)
	assert.Equal(t, cluster.Pending, createdLeg.Status())
	assert.Nil(t, createdLeg.Courier())
	assert.Nil(t, createdLeg.Source())
	assert.Zero(t, createdLeg.DistanceKm())
	// With nobody to offer to, the offer ledger is never touched.
	uow.AssertNotCalled(t, "OfferRepository")
	uow.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_MultipleLegs_SequencedInOrder(t *testing.T) {
	ctx := t.Context()

	deliveryID := kernel.NewUUID()
	dropoff := mustPoint(t, 30.0444, 31.2357)
	firstSource := mustPoint(t, 30.0561, 31.2394)
	secondSource := mustPoint(t, 30.0300, 31.2200)
	price := 7.5

	deliveryRepo := new(MockDeliveryRepository)
	clusterRepo := new(MockClusterRepository)
	couriers := new(MockCourierDirectory)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("ClusterRepository").Return(clusterRepo)

	deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()

	var legs []*cluster.Cluster
	clusterRepo.On("Add", ctx, mock.AnythingOfType("*cluster.Cluster")).
		Run(func(args mock.Arguments) {
			legs = append(legs, args.Get(1).(*cluster.Cluster))
		}).Return(nil).Twice()
	couriers.On("GetAllAvailable", ctx).Return([]*courier.Courier{}, nil).Twice()

	handler := newCreateHandler(newMockFactory(uow), couriers,
		new(MockLocationDirectory), new(MockNotifier))

	cmd, err := commands.NewCreateDeliveryCommand(deliveryID, kernel.NewUUID(),
		kernel.NewUUID(), dropoff, []commands.ClusterSpec{
			{Source: &firstSource},
			{Source: &secondSource, Price: &price},
		})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, cmd))

	require.Len(t, legs, 2)
	assert.Equal(t, 1, legs[0].Sequence())
	assert.Equal(t, 2, legs[1].Sequence())
	// The caller's explicit price wins over distance pricing.
	assert.InDelta(t, price, legs[1].Price(), 1e-9)
	uow.AssertExpectations(t)
}
