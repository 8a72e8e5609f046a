package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hjson/hjson-go"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

const (
	DefaultListen          = "127.0.0.1:8000"
	DefaultServiceCacheTTL = time.Minute
	DefaultServiceCacheLen = 1024
)

var defaultProviders = []string{
	"ipinfo",
	"ipapicom",
	"ipwhois",
	"freeipapi",
	"iplocateio",
	"ipleak",
	"myip",
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen            string   `json:"listen"`
	CachePath         string   `json:"cache_path"`
	CacheTTL          duration `json:"cache_ttl"`
	HTTPTimeout       duration `json:"http_timeout"`
	UserAgent         string   `json:"user_agent"`
	RateLimitInterval duration `json:"rate_limit_interval"`
	RateLimitBurst    uint     `json:"rate_limit_burst"`
	Retries           uint     `json:"retries"`
	WorkerPoolSize    uint     `json:"worker_pool_size"`
	ServiceCacheLen   uint     `json:"service_cache_len"`
	ServiceCacheTTL   duration `json:"service_cache_ttl"`
	AuthUser          string   `json:"auth_user"`
	AuthPassword      string   `json:"auth_password"`
	Providers         []string `json:"providers"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) GetCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}

	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}

	return filepath.Join(base, "ipwhere", "cache.json")
}

func (c config) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return ipwherelib.DefaultCacheTTL
	}

	return c.CacheTTL.Duration
}

func (c config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return ipwherelib.DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c config) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}

	return ipwherelib.DefaultUserAgent + "/" + version
}

func (c config) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return ipwherelib.DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c config) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return ipwherelib.DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c config) GetRetries() int {
	return int(c.Retries)
}

func (c config) GetWorkerPoolSize() int {
	return int(c.WorkerPoolSize)
}

func (c config) GetServiceCacheLen() int {
	if c.ServiceCacheLen == 0 {
		return DefaultServiceCacheLen
	}

	return int(c.ServiceCacheLen)
}

func (c config) GetServiceCacheTTL() time.Duration {
	if c.ServiceCacheTTL.Duration == 0 {
		return DefaultServiceCacheTTL
	}

	return c.ServiceCacheTTL.Duration
}

func (c config) GetAuthUser() string {
	return c.AuthUser
}

func (c config) GetAuthPassword() string {
	return c.AuthPassword
}

func (c config) GetProviders() []string {
	if len(c.Providers) == 0 {
		return defaultProviders
	}

	return c.Providers
}

func parseConfig(path string) (*config, error) {
	conf := config{}

	if path == "" {
		return &conf, nil
	}

	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	json.Unmarshal(rawBytes, &conf) // nolint: errcheck

	if conf.Listen != "" {
		if _, _, err := net.SplitHostPort(conf.Listen); err != nil {
			return nil, fmt.Errorf("incorrect host:port for listen: %w", err)
		}
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range conf.Providers {
		if _, ok := seenProviderNames[v]; ok {
			return nil, fmt.Errorf("provider %s is duplicated", v)
		}

		seenProviderNames[v] = struct{}{}
	}

	return &conf, nil
}
