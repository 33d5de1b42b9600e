package offerrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/offerrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OfferRepositoryIntegrationTestSuite provides integration tests for
// OfferRepository using PostgreSQL containers, with particular attention to
// the one-active-offer-per-cluster rule.
type OfferRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *offerrepo.GormOfferRepository
	tracker    *MockAggregateTracker
}

func (suite *OfferRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&offerrepo.OfferDTO{}))
}

func (suite *OfferRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE offers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = offerrepo.NewGormOfferRepository(suite.db, suite.tracker)
}

func (suite *OfferRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OfferRepositoryIntegrationTestSuite) createTestOffer(clusterID, deliveryID kernel.UUID, ttl time.Duration) *offer.Offer {
	now := time.Now().UTC()
	o, err := offer.NewOffer(kernel.NewUUID(), clusterID, deliveryID,
		kernel.NewUUID(), now, now.Add(ttl))
	suite.Require().NoError(err)
	return o
}

func (suite *OfferRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	original := suite.createTestOffer(kernel.NewUUID(), kernel.NewUUID(), time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.ClusterID(), retrieved.ClusterID())
	suite.Equal(original.CourierID(), retrieved.CourierID())
	suite.Equal(offer.Pending, retrieved.Status())
	suite.True(retrieved.IsActive())
	suite.Nil(retrieved.RespondedAt())
}

func (suite *OfferRepositoryIntegrationTestSuite) TestAdd_SecondActiveOfferForCluster_Rejected() {
	ctx := context.Background()
	clusterID := kernel.NewUUID()
	deliveryID := kernel.NewUUID()

	first := suite.createTestOffer(clusterID, deliveryID, time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.createTestOffer(clusterID, deliveryID, time.Minute)
	err := suite.repository.Add(ctx, second)
	suite.Require().ErrorIs(err, ports.ErrOfferAlreadyActive)
}

func (suite *OfferRepositoryIntegrationTestSuite) TestAdd_AfterResolution_NewOfferAllowed() {
	ctx := context.Background()
	clusterID := kernel.NewUUID()
	deliveryID := kernel.NewUUID()

	first := suite.createTestOffer(clusterID, deliveryID, time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	suite.Require().NoError(first.Decline(time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	second := suite.createTestOffer(clusterID, deliveryID, time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, second))
}

func (suite *OfferRepositoryIntegrationTestSuite) TestUpdate_ResolutionPersists() {
	ctx := context.Background()

	o := suite.createTestOffer(kernel.NewUUID(), kernel.NewUUID(), time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.Accept(time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	retrieved, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(offer.Accepted, retrieved.Status())
	suite.False(retrieved.IsActive())
	suite.NotNil(retrieved.RespondedAt())
}

func (suite *OfferRepositoryIntegrationTestSuite) TestGetActiveByCluster_IgnoresResolvedOffers() {
	ctx := context.Background()
	clusterID := kernel.NewUUID()
	deliveryID := kernel.NewUUID()

	resolved := suite.createTestOffer(clusterID, deliveryID, time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, resolved))
	suite.Require().NoError(resolved.Decline(time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, resolved))

	active := suite.createTestOffer(clusterID, deliveryID, time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, active))

	retrieved, err := suite.repository.GetActiveByCluster(ctx, clusterID)
	suite.Require().NoError(err)
	suite.Equal(active.ID(), retrieved.ID())
}

func (suite *OfferRepositoryIntegrationTestSuite) TestGetActiveByCluster_NoActiveOffer_ReturnsNotFoundError() {
	ctx := context.Background()

	_, err := suite.repository.GetActiveByCluster(ctx, kernel.NewUUID())

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OfferRepositoryIntegrationTestSuite) TestGetActiveByDelivery_ReturnsAllActiveOffers() {
	ctx := context.Background()
	deliveryID := kernel.NewUUID()

	first := suite.createTestOffer(kernel.NewUUID(), deliveryID, time.Minute)
	second := suite.createTestOffer(kernel.NewUUID(), deliveryID, time.Minute)
	other := suite.createTestOffer(kernel.NewUUID(), kernel.NewUUID(), time.Minute)

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	offers, err := suite.repository.GetActiveByDelivery(ctx, deliveryID)
	suite.Require().NoError(err)
	suite.Len(offers, 2)
}

func (suite *OfferRepositoryIntegrationTestSuite) TestGetAllExpiredActive_ReturnsOnlyOverdueActiveOffers() {
	ctx := context.Background()

	overdue := suite.createTestOffer(kernel.NewUUID(), kernel.NewUUID(), 10*time.Millisecond)
	fresh := suite.createTestOffer(kernel.NewUUID(), kernel.NewUUID(), time.Hour)

	suite.Require().NoError(suite.repository.Add(ctx, overdue))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	time.Sleep(50 * time.Millisecond)

	expired, err := suite.repository.GetAllExpiredActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(expired, 1)
	suite.Equal(overdue.ID(), expired[0].ID())
}

func TestOfferRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OfferRepositoryIntegrationTestSuite))
}
