package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/Cihanyuksel/ticketing-api/api"
	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/Cihanyuksel/ticketing-api/internal/mocks"
	appvalidator "github.com/Cihanyuksel/ticketing-api/internal/validator"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type VenuesTestSuite struct {
	suite.Suite
	app         *Application
	m           *testMocks
	redisClient *mocks.MockRedisClient
}

func (s *VenuesTestSuite) SetupTest() {
	s.redisClient = new(mocks.MockRedisClient)
	s.app, s.m = newTestApplication(func(a *Application) {
		a.redis = s.redisClient
	})
}

func TestVenuesSuite(t *testing.T) {
	suite.Run(t, new(VenuesTestSuite))
}

func testVenue(id uuid.UUID) *domain.Venue {
	sectionID := uuid.New()
	rowID := uuid.New()

	return &domain.Venue{
		ID:            id,
		Name:          "Harbiye Open Air",
		City:          "Istanbul",
		District:      "Sisli",
		Address:       "Taskisla Cd. 8",
		TotalCapacity: 2,
		Sections: []domain.Section{
			{
				ID:      sectionID,
				VenueID: id,
				Name:    "A",
				Rows: []domain.Row{
					{
						ID:        rowID,
						SectionID: sectionID,
						Name:      "1",
						Seats: []domain.Seat{
							{ID: uuid.New(), RowID: rowID, Number: 1},
							{ID: uuid.New(), RowID: rowID, Number: 2},
						},
					},
				},
			},
		},
	}
}

func (s *VenuesTestSuite) TestCreateVenueHandler() {
	s.Run("should fail validation when name is missing", func() {
		s.SetupTest()

		input := api.CreateVenueRequest{City: "Istanbul", District: "Sisli", Address: "Taskisla Cd. 8"}
		w := executeRequest(s.T(), s.app, http.MethodPost, "/venues", input)

		s.Equal(http.StatusUnprocessableEntity, w.Code)
		checkErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "is required")
	})

	s.Run("should create the venue", func() {
		s.SetupTest()

		venueID := uuid.New()
		s.m.venueRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *domain.Venue) bool {
			return v.Name == "Harbiye Open Air" && v.City == "Istanbul"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Venue).ID = venueID
		}).Return(nil)

		input := api.CreateVenueRequest{
			Name:     "Harbiye Open Air",
			City:     "Istanbul",
			District: "Sisli",
			Address:  "Taskisla Cd. 8",
		}
		w := executeRequest(s.T(), s.app, http.MethodPost, "/venues", input)

		s.Equal(http.StatusCreated, w.Code)
		s.Equal("/venues/"+venueID.String(), w.Header().Get("Location"))

		s.m.venueRepo.AssertExpectations(s.T())
	})
}

func (s *VenuesTestSuite) TestGetVenueHandler() {
	venueID := uuid.New()

	s.Run("should serve the venue from cache without hitting the database", func() {
		s.SetupTest()

		payload, err := json.Marshal(testVenue(venueID))
		s.Require().NoError(err)

		s.redisClient.On("Get", mock.Anything, venueCacheKey(venueID)).
			Return(redis.NewStringResult(string(payload), nil))

		w := executeRequest(s.T(), s.app, http.MethodGet, "/venues/"+venueID.String(), nil)

		s.Equal(http.StatusOK, w.Code)
		s.m.venueRepo.AssertNotCalled(s.T(), "GetByIdWithLayout", mock.Anything, mock.Anything)

		var resp api.VenueResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Equal(venueID, resp.Venue.Id)
		s.Equal(2, resp.Venue.TotalCapacity)
	})

	s.Run("should load from the database and populate the cache on a miss", func() {
		s.SetupTest()

		venue := testVenue(venueID)

		s.redisClient.On("Get", mock.Anything, venueCacheKey(venueID)).
			Return(redis.NewStringResult("", redis.Nil))
		s.m.venueRepo.On("GetByIdWithLayout", mock.Anything, venueID).Return(venue, nil)
		s.redisClient.On("Set", mock.Anything, venueCacheKey(venueID), mock.Anything, venueCacheTTL).
			Return(redis.NewStatusResult("OK", nil))

		w := executeRequest(s.T(), s.app, http.MethodGet, "/venues/"+venueID.String(), nil)

		s.Equal(http.StatusOK, w.Code)
		s.redisClient.AssertExpectations(s.T())
		s.m.venueRepo.AssertExpectations(s.T())
	})

	s.Run("should fall back to the database when the cache read fails", func() {
		s.SetupTest()

		venue := testVenue(venueID)

		s.redisClient.On("Get", mock.Anything, venueCacheKey(venueID)).
			Return(redis.NewStringResult("", mocks.MockRedisError{Msg: "connection refused"}))
		s.m.venueRepo.On("GetByIdWithLayout", mock.Anything, venueID).Return(venue, nil)
		s.redisClient.On("Set", mock.Anything, venueCacheKey(venueID), mock.Anything, venueCacheTTL).
			Return(redis.NewStatusResult("OK", nil))

		w := executeRequest(s.T(), s.app, http.MethodGet, "/venues/"+venueID.String(), nil)

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("should return 404 when venue does not exist", func() {
		s.SetupTest()

		s.redisClient.On("Get", mock.Anything, venueCacheKey(venueID)).
			Return(redis.NewStringResult("", redis.Nil))
		s.m.venueRepo.On("GetByIdWithLayout", mock.Anything, venueID).
			Return(nil, domain.ErrRecordNotFound)

		w := executeRequest(s.T(), s.app, http.MethodGet, "/venues/"+venueID.String(), nil)

		s.Equal(http.StatusNotFound, w.Code)
		checkErrorResponse(s.T(), w, http.StatusNotFound, ErrNotFound)
	})
}

func (s *VenuesTestSuite) TestCreateSeatsHandler() {
	venueID := uuid.New()
	sectionID := uuid.New()
	rowID := uuid.New()
	url := fmt.Sprintf("/venues/%s/sections/%s/rows/%s/seats", venueID, sectionID, rowID)

	s.Run("should fail validation when count exceeds the limit", func() {
		s.SetupTest()

		w := executeRequest(s.T(), s.app, http.MethodPost, url, api.CreateSeatsRequest{Count: 1001})

		s.Equal(http.StatusUnprocessableEntity, w.Code)
		checkErrorResponse(s.T(), w, http.StatusUnprocessableEntity, fmt.Sprintf(appvalidator.ErrMaxValue, "1000"))
	})

	s.Run("should return 404 when the row does not belong to the venue", func() {
		s.SetupTest()

		s.m.venueRepo.On("CreateSeatsBulk", mock.Anything, venueID, sectionID, rowID, 10).
			Return(nil, domain.ErrRecordNotFound)

		w := executeRequest(s.T(), s.app, http.MethodPost, url, api.CreateSeatsRequest{Count: 10})

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("should create seats and invalidate the cached layout", func() {
		s.SetupTest()

		seats := []domain.Seat{
			{ID: uuid.New(), RowID: rowID, Number: 3},
			{ID: uuid.New(), RowID: rowID, Number: 4},
		}

		s.m.venueRepo.On("CreateSeatsBulk", mock.Anything, venueID, sectionID, rowID, 2).
			Return(seats, nil)
		s.redisClient.On("Del", mock.Anything, []string{venueCacheKey(venueID)}).
			Return(redis.NewIntCmd(context.Background(), 1))

		w := executeRequest(s.T(), s.app, http.MethodPost, url, api.CreateSeatsRequest{Count: 2})

		s.Equal(http.StatusCreated, w.Code)
		s.redisClient.AssertExpectations(s.T())

		var resp api.SeatsResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Len(resp.Seats, 2)
		s.Equal(3, resp.Seats[0].Number)
	})
}
