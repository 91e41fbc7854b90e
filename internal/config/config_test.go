package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const sampleYAML = `
server:
  port: 8080
log:
  level: debug
aggregator:
  call_timeout: 5s
providers:
  - name: tsdb
    kind: TheSportsDB
    base_url: https://www.thesportsdb.com
    api_key: "123"
    leagues:
      - { id: "4387", name: NBA, sport: basketball }
  - name: odds
    kind: oddsapi
    base_url: https://api.the-odds-api.com
    timeout: 3s
    leagues:
      - { id: basketball_nba, name: NBA }
scrapers:
  - name: site-a
    base_url: https://a.example/
    listing_selector: "a.match"
  - name: site-b
    kind: browser
    base_url: https://b.example/
    listing_path: /live
    listing_selector: ".card a"
    media_selectors: [iframe]
    page_concurrency: 2
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	Convey("LoadConfig", t, func() {
		t.Setenv("STREAMSYNC_ODDSAPI_KEY", "from-env")
		t.Setenv("STREAMSYNC_THESPORTSDB_KEY", "")
		t.Setenv("STREAMSYNC_DATABASE_DSN", "")

		cfg, err := LoadConfig(writeConfig(t, sampleYAML))
		So(err, ShouldBeNil)

		Convey("读取显式配置", func() {
			So(cfg.Server.Port, ShouldEqual, 8080)
			So(cfg.Log.Level, ShouldEqual, "debug")
			So(len(cfg.Providers), ShouldEqual, 2)
			So(cfg.Providers[0].Leagues[0].Sport, ShouldEqual, "basketball")
			So(cfg.Scrapers[1].ListingPath, ShouldEqual, "/live")
			So(cfg.Scrapers[1].MediaSelectors, ShouldResemble, []string{"iframe"})
			So(cfg.Scrapers[1].PageConcurrency, ShouldEqual, 2)
		})

		Convey("密钥由环境变量覆盖", func() {
			So(cfg.Providers[1].APIKey, ShouldEqual, "from-env")
			So(cfg.Providers[0].APIKey, ShouldEqual, "123")
		})

		Convey("补全默认值", func() {
			So(cfg.Server.Mode, ShouldEqual, "release")
			So(cfg.Server.RequestTimeout, ShouldEqual, 45*time.Second)
			So(cfg.Providers[0].Kind, ShouldEqual, ProviderTheSportsDB)
			So(cfg.Providers[0].Timeout, ShouldEqual, 5*time.Second)
			So(cfg.Providers[1].Timeout, ShouldEqual, 3*time.Second)
			So(cfg.Providers[1].DaysFrom, ShouldEqual, 1)
			So(cfg.Scrapers[0].Kind, ShouldEqual, ScraperHTML)
			So(cfg.Scrapers[0].ListingPath, ShouldEqual, "/")
			So(cfg.Scrapers[0].MediaSelectors, ShouldResemble, DefaultMediaSelectors)
			So(cfg.Scrapers[0].UserAgent, ShouldNotBeEmpty)
			So(cfg.Scrapers[0].PageConcurrency, ShouldEqual, 4)
			So(cfg.Scrapers[1].RenderWait, ShouldEqual, 2*time.Second)
		})
	})

	Convey("文件不存在时报错", t, func() {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Providers: []ProviderConfig{{Name: "p", Kind: ProviderOddsAPI, BaseURL: "https://x", Leagues: nil}},
			Scrapers:  []ScraperConfig{{Name: "s", Kind: ScraperHTML, BaseURL: "https://y", ListingSelector: "a"}},
		}
	}

	Convey("Validate", t, func() {
		Convey("没有来源是合法的", func() {
			So((&Config{}).Validate(), ShouldBeNil)
		})

		Convey("provider 必须有联赛", func() {
			So(valid().Validate(), ShouldNotBeNil)
		})

		Convey("名称重复", func() {
			cfg := valid()
			cfg.Providers = nil
			cfg.Scrapers = append(cfg.Scrapers, cfg.Scrapers[0])
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知类型", func() {
			cfg := valid()
			cfg.Providers = nil
			cfg.Scrapers[0].Kind = "rss"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("缺少 listing_selector", func() {
			cfg := valid()
			cfg.Providers = nil
			cfg.Scrapers[0].ListingSelector = ""
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("合法配置", func() {
			cfg := valid()
			cfg.Providers = nil
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}

func TestWithoutSources(t *testing.T) {
	Convey("WithoutSources 过滤且不修改原配置", t, func() {
		cfg := &Config{
			Providers: []ProviderConfig{{Name: "p1"}, {Name: "p2"}},
			Scrapers:  []ScraperConfig{{Name: "s1"}, {Name: "s2"}},
		}
		out := cfg.WithoutSources(map[string]bool{"p1": true, "s2": true})
		So(len(out.Providers), ShouldEqual, 1)
		So(out.Providers[0].Name, ShouldEqual, "p2")
		So(len(out.Scrapers), ShouldEqual, 1)
		So(out.Scrapers[0].Name, ShouldEqual, "s1")
		So(len(cfg.Providers), ShouldEqual, 2)
	})
}
