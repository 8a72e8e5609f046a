package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

type ConfigTestSuite struct {
	suite.Suite

	dir string
}

func (suite *ConfigTestSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "ipwhere_config_test_")
	if err != nil {
		panic(err)
	}

	suite.dir = dir
}

func (suite *ConfigTestSuite) TearDownTest() {
	os.RemoveAll(suite.dir)
}

func (suite *ConfigTestSuite) parse(content string) (*config, error) {
	path := filepath.Join(suite.dir, "config.hjson")

	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		panic(err)
	}

	return parseConfig(path)
}

func (suite *ConfigTestSuite) TestEmptyPathGivesDefaults() {
	conf, err := parseConfig("")

	suite.NoError(err)
	suite.Equal(DefaultListen, conf.GetListen())
	suite.Equal(ipwherelib.DefaultCacheTTL, conf.GetCacheTTL())
	suite.Equal(ipwherelib.DefaultHTTPTimeout, conf.GetHTTPTimeout())
	suite.Equal(ipwherelib.DefaultRateLimitBurst, conf.GetRateLimitBurst())
	suite.Equal(defaultProviders, conf.GetProviders())
	suite.Contains(conf.GetCachePath(), "ipwhere")
}

func (suite *ConfigTestSuite) TestMissingFile() {
	_, err := parseConfig(filepath.Join(suite.dir, "nope.hjson"))

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestHjsonWithComments() {
	conf, err := suite.parse(`{
  // where to listen in serve mode
  listen: "127.0.0.1:9000"
  cache_ttl: 10m
  providers: [
    ipinfo
    "ipdata secret"
  ]
}`)

	suite.NoError(err)
	suite.Equal("127.0.0.1:9000", conf.GetListen())
	suite.Equal(10*time.Minute, conf.GetCacheTTL())
	suite.Equal([]string{"ipinfo", "ipdata secret"}, conf.GetProviders())
}

func (suite *ConfigTestSuite) TestBadDuration() {
	conf, err := suite.parse(`{cache_ttl: "garbage"}`)

	// a broken optional value falls back to its default
	suite.NoError(err)
	suite.Equal(ipwherelib.DefaultCacheTTL, conf.GetCacheTTL())
}

func (suite *ConfigTestSuite) TestBadListen() {
	_, err := suite.parse(`{listen: "no-port"}`)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestDuplicatedProvider() {
	_, err := suite.parse(`{providers: [ipinfo, ipinfo]}`)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestNotJSONAtAll() {
	_, err := suite.parse(`[[[`)

	suite.Error(err)
}

func TestConfig(t *testing.T) {
	suite.Run(t, &ConfigTestSuite{})
}
