package providers_test

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

type ProviderTestSuite struct {
	suite.Suite

	service ipwherelib.Service
}

func (suite *ProviderTestSuite) SetupTest() {
	client := ipwherelib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100)

	suite.service = ipwherelib.NewService(client)
}

func (suite *ProviderTestSuite) lookup(provider ipwherelib.Provider, target net.IP) (ipwherelib.LookupResponse, error) {
	return suite.service.Invoke(context.Background(), provider, target)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
