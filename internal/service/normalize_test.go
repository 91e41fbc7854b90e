package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeTitle(t *testing.T) {
	Convey("NormalizeTitle", t, func() {
		Convey("去掉空格和标点并转小写", func() {
			So(NormalizeTitle("Los Angeles Lakers"), ShouldEqual, "losangeleslakers")
			So(NormalizeTitle("LAKERS vs. Celtics!"), ShouldEqual, "lakersvsceltics")
			So(NormalizeTitle("St. Louis Blues (NHL) 2026"), ShouldEqual, "stlouisbluesnhl2026")
		})

		Convey("非 ASCII 字符被丢弃", func() {
			So(NormalizeTitle("Atlético Madrid"), ShouldEqual, "atlticomadrid")
			So(NormalizeTitle("—  ·  —"), ShouldEqual, "")
		})

		Convey("先转小写再过滤：小写后为 ASCII 的 Unicode 字母保留", func() {
			So(NormalizeTitle("\u212Aings"), ShouldEqual, "kings")
			So(NormalizeTitle("\u0130stanbul"), ShouldEqual, "istanbul")
		})

		Convey("幂等", func() {
			for _, s := range []string{"Lakers vs Celtics", "FC Köln", "", "76ers @ Nets"} {
				once := NormalizeTitle(s)
				So(NormalizeTitle(once), ShouldEqual, once)
			}
		})

		Convey("输出只含 [a-z0-9]", func() {
			out := NormalizeTitle("A-b_C d.E/f\tG\n9")
			So(out, ShouldEqual, "abcdefg9")
			for _, c := range out {
				So((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'), ShouldBeTrue)
			}
		})
	})
}
