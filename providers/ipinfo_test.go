package providers_test

import (
	"net"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/ipwhere/ipwhere/ipwherelib"
	"github.com/ipwhere/ipwhere/providers"
)

type MockedIPInfoTestSuite struct {
	MockedProviderTestSuite

	prov ipwherelib.Provider
}

func (suite *MockedIPInfoTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPInfo()
}

func (suite *MockedIPInfoTestSuite) TestKind() {
	suite.Equal(providers.NameIPInfo, suite.prov.Kind().Name)
}

func (suite *MockedIPInfoTestSuite) TestEndpoint() {
	suite.Equal("https://ipinfo.io/json", suite.prov.Endpoint(nil))
	suite.Equal("https://ipinfo.io/23.22.13.113/json",
		suite.prov.Endpoint(net.ParseIP("23.22.13.113")))
}

func (suite *MockedIPInfoTestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.lookup(suite.prov, nil)

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.lookup(suite.prov, nil)

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "23.22.13.113",
  "hostname": "ec2-23-22-13-113.compute-1.amazonaws.com",
  "city": "Virginia Beach",
  "region": "Virginia",
  "country": "US",
  "loc": "36.7957,-76.0126",
  "org": "AS14618 Amazon.com, Inc.",
  "postal": "23479",
  "timezone": "America/New_York"
}`))

	result, err := suite.lookup(suite.prov, net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.True(net.ParseIP("23.22.13.113").Equal(result.IP))
	suite.Equal("US", result.CountryCode)
	suite.Equal("Virginia", result.Region)
	suite.Equal("Virginia Beach", result.City)
	suite.Equal("23479", result.PostalCode)
	suite.Equal("America/New_York", result.TimeZone)
	suite.Equal("AS14618", result.ASN)
	suite.Equal("Amazon.com, Inc.", result.ASNOrg)
	suite.InDelta(36.7957, result.Latitude, 1e-6)
	suite.InDelta(-76.0126, result.Longitude, 1e-6)
	suite.Equal(providers.NameIPInfo, result.Provider.Name)
}

func (suite *MockedIPInfoTestSuite) TestLookupOrgWithoutASN() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "23.22.13.113",
  "org": "Amazon.com"
}`))

	result, err := suite.lookup(suite.prov, nil)

	suite.NoError(err)
	suite.Empty(result.ASN)
	suite.Equal("Amazon.com", result.ASNOrg)
}

func TestIPInfo(t *testing.T) {
	suite.Run(t, &MockedIPInfoTestSuite{})
}
