package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				l := Get()
				So(l, ShouldNotBeNil)
				So(func() { l.Info(context.Background(), "hello", String("k", "v")) }, ShouldNotPanic)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWith(&bytes.Buffer{}, Format("xml"))

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})

		Convey("When initialized with a nil writer", func() {
			So(InitWith(nil, FormatText), ShouldNotBeNil)
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, FormatJSON), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When a named logger writes an entry", func() {
			Named("renderer").With(Int("session", 3)).Info(context.Background(), "rendered", Int("marks", 12))

			Convey("Then the entry carries component, fields and source", func() {
				var entry map[string]any
				So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)
				So(entry["msg"], ShouldEqual, "rendered")
				So(entry["component"], ShouldEqual, "renderer")
				So(entry["marks"], ShouldEqual, float64(12))
				So(entry["session"], ShouldEqual, float64(3))
				So(entry["source"], ShouldContainSubstring, "logger_test.go")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, FormatText), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("WARN"), ShouldBeNil)
			Get().Info(context.Background(), "dropped")
			Get().Warn(context.Background(), "kept")

			Convey("Then info entries are filtered", func() {
				out := buf.String()
				So(strings.Contains(out, "dropped"), ShouldBeFalse)
				So(out, ShouldContainSubstring, "kept")
			})
		})

		Convey("When the level is invalid", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Nop discards everything without panicking", t, func() {
		So(func() { Nop().Named("x").Error(context.Background(), "boom", Error(nil)) }, ShouldNotPanic)
	})
}
