package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/domain"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	logger    *log.Logger
	appConfig *config.ApplicationConfig
}

// SetupTest builds a fresh application per test so ids start at 1 every time.
func (suite *WaitlistAPITestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(models.ModelRegistry...))

	suite.logger = log.NewLoggerWithJSONOutput()

	suite.appConfig = &config.ApplicationConfig{
		DB:     suite.db,
		Logger: suite.logger,
		Config: &config.AppConfig{
			RateLimitRequests:       1000,
			RateLimitWindow:         time.Minute,
			RequestTimeout:          30 * time.Second,
			SubmitRateLimitRequests: 100,
			StatsBreakerFailures:    5,
			StatsBreakerRecovery:    30 * time.Second,
		},
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
	suite.NoError(suite.appConfig.Cleanup())
}

func (suite *WaitlistAPITestSuite) do(method, path string, body any) (*http.Response, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (suite *WaitlistAPITestSuite) submit(email string) (*http.Response, map[string]any) {
	return suite.do(http.MethodPost, "/waitlist", map[string]string{"email": email})
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, body := suite.do(http.MethodGet, "/health", nil)

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(float64(200), body["code"])
	suite.Contains(body["message"], "health check completed")

	data := body["data"].(map[string]any)
	suite.Equal(float64(1), data["database"])
	suite.Contains(data, "uptime")
}

func (suite *WaitlistAPITestSuite) TestConcreteScenario() {
	resp, body := suite.submit("a@example.com")
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal(float64(1), body["userId"])
	suite.NotEmpty(body["message"])

	resp, _ = suite.submit("a@example.com")
	suite.Equal(http.StatusConflict, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/waitlist", nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	users := body["users"].([]any)
	suite.Require().Len(users, 1)
	suite.Equal("a@example.com", users[0].(map[string]any)["email"])

	resp, _ = suite.do(http.MethodDelete, "/waitlist?id=1", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/waitlist", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Empty(body["users"].([]any))

	resp, body = suite.do(http.MethodGet, "/stats", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(float64(0), body["totalUsers"])
	suite.Equal("no-store", resp.Header.Get("CDN-Cache-Control"))
}

func (suite *WaitlistAPITestSuite) TestInvalidEmailCreatesNothing() {
	resp, body := suite.submit("not-an-email")

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.NotEmpty(body["errors"])

	_, body = suite.do(http.MethodGet, "/stats", nil)
	suite.Equal(float64(0), body["totalUsers"])
}

func (suite *WaitlistAPITestSuite) TestDuplicateLeavesCountUnchanged() {
	resp, _ := suite.submit("dup@example.com")
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)

	_, before := suite.do(http.MethodGet, "/stats", nil)
	resp, _ = suite.submit("dup@example.com")
	suite.Equal(http.StatusConflict, resp.StatusCode)
	_, after := suite.do(http.MethodGet, "/stats", nil)

	suite.Equal(before["totalUsers"], after["totalUsers"])
}

func (suite *WaitlistAPITestSuite) TestStatsMatchesListing() {
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		resp, _ := suite.submit(email)
		suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	_, list := suite.do(http.MethodGet, "/waitlist", nil)
	_, stats := suite.do(http.MethodGet, "/stats", nil)

	suite.Equal(float64(len(list["users"].([]any))), stats["totalUsers"])
	suite.LessOrEqual(stats["todayUsers"].(float64), stats["totalUsers"].(float64))

	first := list["users"].([]any)[0].(map[string]any)
	suite.Equal("c@example.com", first["email"])
}

func (suite *WaitlistAPITestSuite) TestDeleteUnknownIDIsNotFound() {
	resp, body := suite.do(http.MethodDelete, "/waitlist?id=12345", nil)

	suite.Equal(http.StatusNotFound, resp.StatusCode)
	suite.NotEmpty(body["message"])

	resp, _ = suite.do(http.MethodGet, "/waitlist", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
}

func (suite *WaitlistAPITestSuite) TestConcurrentDuplicateSubmissions() {
	const clients = 6

	var wg sync.WaitGroup
	codes := make(chan int, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, _ := json.Marshal(map[string]string{"email": "same@example.com"})
			resp, err := http.Post(suite.baseURL+"/waitlist", "application/json", bytes.NewReader(raw))
			if err != nil {
				codes <- 0
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for c := range codes {
		counts[c]++
	}
	suite.Equal(1, counts[http.StatusCreated])
	suite.Equal(clients-1, counts[http.StatusConflict])
}

func (suite *WaitlistAPITestSuite) TestCorrelationIDRoundTrip() {
	req, err := http.NewRequest(http.MethodGet, suite.baseURL+"/waitlist", nil)
	suite.Require().NoError(err)
	req.Header.Set("X-Correlation-ID", "test-correlation")

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal("test-correlation", resp.Header.Get("X-Correlation-ID"))
}

func TestWaitlistAPISuite(t *testing.T) {
	// Skip integration tests unless explicitly requested
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
