package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/freekicks/internal/adapters/http/api"
	"github.com/okian/freekicks/internal/adapters/mq/queue"
	"github.com/okian/freekicks/internal/adapters/repository"
	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/legend"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/render"
	"github.com/okian/freekicks/internal/domain/session"
)

type call struct {
	kind     string
	session  string
	category string
	id       int
	settled  bool
}

type mockDeps struct {
	records []model.Record
	err     error
	calls   []call
}

func (m *mockDeps) Options(ctx context.Context) []string {
	return filter.Options(m.records)
}

func (m *mockDeps) Legend(ctx context.Context) ([]legend.Swatch, error) {
	return []legend.Swatch{{Label: "England", Color: "#fff"}}, m.err
}

func (m *mockDeps) Records(ctx context.Context, category string) []model.Record {
	return filter.Apply(m.records, category)
}

func (m *mockDeps) Record(ctx context.Context, id int) (model.Record, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Record{}, fmt.Errorf("%w: %d", repository.ErrNotFound, id)
}

func (m *mockDeps) Pitch(ctx context.Context) ([]byte, string, error) {
	return []byte("RIFF"), "image/webp", m.err
}

func (m *mockDeps) Overview(ctx context.Context, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := w.Write([]byte("\x89PNG"))
	return err
}

func (m *mockDeps) result(c call) (queue.Result, error) {
	m.calls = append(m.calls, c)
	if m.err != nil {
		return queue.Result{}, m.err
	}
	return queue.Result{
		SessionID: c.session,
		Frame:     chart.Frame{Width: 700, Height: 590, Selected: filter.All},
		Diff:      render.Diff{Entered: []int{1}},
	}, nil
}

func (m *mockDeps) CreateSession(ctx context.Context) (queue.Result, error) {
	return m.result(call{kind: "create", session: "s1"})
}

func (m *mockDeps) Frame(ctx context.Context, sid string, settled bool) (queue.Result, error) {
	return m.result(call{kind: "frame", session: sid, settled: settled})
}

func (m *mockDeps) Select(ctx context.Context, sid, category string) (queue.Result, error) {
	return m.result(call{kind: "select", session: sid, category: category})
}

func (m *mockDeps) PointerEnter(ctx context.Context, sid string, id int) (queue.Result, error) {
	return m.result(call{kind: "enter", session: sid, id: id})
}

func (m *mockDeps) PointerLeave(ctx context.Context, sid string, id int) (queue.Result, error) {
	return m.result(call{kind: "leave", session: sid, id: id})
}

func (m *mockDeps) CloseSession(ctx context.Context, sid string) error {
	m.calls = append(m.calls, call{kind: "close", session: sid})
	return m.err
}

func (m *mockDeps) ExportSVG(ctx context.Context, sid string, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "<svg></svg>")
	return err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).Register(context.Background(), mux)
	return mux
}

func TestServer_Catalog(t *testing.T) {
	Convey("Given a server over two records", t, func() {
		deps := &mockDeps{records: []model.Record{
			{ID: 1, Category: "Real Madrid"},
			{ID: 2, Category: "England"},
		}}
		mux := newMux(deps)

		Convey("Then /options lists All first and clubs sorted", func() {
			w := serve(mux, "GET", "/options", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct{ Options []string }
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Options, ShouldResemble, []string{"All", "England", "Real Madrid"})
		})

		Convey("Then /legend returns swatches", func() {
			w := serve(mux, "GET", "/legend", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"label":"England"`)
		})

		Convey("Then /records filters by club", func() {
			w := serve(mux, "GET", "/records?club=England", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct{ Records []model.Record }
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(len(body.Records), ShouldEqual, 1)
			So(body.Records[0].ID, ShouldEqual, 2)

			w = serve(mux, "GET", "/records", "")
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(len(body.Records), ShouldEqual, 2)
		})

		Convey("Then /records/{id} answers 200, 404 and 400", func() {
			So(serve(mux, "GET", "/records/1", "").Code, ShouldEqual, http.StatusOK)
			So(serve(mux, "GET", "/records/9", "").Code, ShouldEqual, http.StatusNotFound)
			w := serve(mux, "GET", "/records/abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
		})

		Convey("Then images carry their content types", func() {
			w := serve(mux, "GET", "/pitch.webp", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/webp")
			w = serve(mux, "GET", "/overview.png", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
		})

		Convey("Then health and stats are served", func() {
			So(serve(mux, "GET", "/healthz", "").Code, ShouldEqual, http.StatusOK)
			w := serve(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then unknown routes and methods are refused", func() {
			So(serve(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, "POST", "/options", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestServer_Sessions(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When a session is created", func() {
			w := serve(mux, "POST", "/sessions", "")

			Convey("Then it answers 201 with the id, frame and diff", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["session_id"], ShouldEqual, "s1")
				So(body["frame"], ShouldNotBeNil)
				So(body["diff"], ShouldNotBeNil)
			})
		})

		Convey("When interactions are posted", func() {
			So(serve(mux, "POST", "/sessions/s1/filter", `{"category":"England"}`).Code, ShouldEqual, http.StatusOK)
			So(serve(mux, "POST", "/sessions/s1/enter", `{"id":7}`).Code, ShouldEqual, http.StatusOK)
			So(serve(mux, "POST", "/sessions/s1/leave", `{"id":7}`).Code, ShouldEqual, http.StatusOK)
			So(serve(mux, "GET", "/sessions/s1?settled=true", "").Code, ShouldEqual, http.StatusOK)

			Convey("Then the dependencies see them in order", func() {
				So(deps.calls, ShouldResemble, []call{
					{kind: "select", session: "s1", category: "England"},
					{kind: "enter", session: "s1", id: 7},
					{kind: "leave", session: "s1", id: 7},
					{kind: "frame", session: "s1", settled: true},
				})
			})
		})

		Convey("When a pointer id is zero", func() {
			w := serve(mux, "POST", "/sessions/s1/enter", `{"id":0}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.calls[0].id, ShouldEqual, 0)
		})

		Convey("When requests are malformed", func() {
			So(serve(mux, "POST", "/sessions/s1/filter", `{}`).Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, "POST", "/sessions/s1/filter", `nope`).Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, "POST", "/sessions/s1/enter", `{}`).Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, "GET", "/sessions/s1?settled=maybe", "").Code, ShouldEqual, http.StatusBadRequest)
			So(deps.calls, ShouldBeEmpty)
		})

		Convey("When the session is exported and closed", func() {
			w := serve(mux, "GET", "/sessions/s1/chart.svg", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
			So(serve(mux, "DELETE", "/sessions/s1", "").Code, ShouldEqual, http.StatusNoContent)
		})
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{session.ErrSessionNotFound, http.StatusNotFound, "not_found"},
		{render.ErrUnknownMark, http.StatusNotFound, "not_found"},
		{filter.ErrUnknownCategory, http.StatusBadRequest, "bad_request"},
		{queue.ErrFull, http.StatusTooManyRequests, "backpressure"},
		{queue.ErrStopped, http.StatusServiceUnavailable, "unavailable"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	Convey("Given dependencies that fail", t, func() {
		for _, tc := range cases {
			deps := &mockDeps{err: fmt.Errorf("wrapped: %w", tc.err)}
			mux := newMux(deps)

			w := serve(mux, "POST", "/sessions/s1/enter", `{"id":1}`)
			So(w.Code, ShouldEqual, tc.status)
			var body struct{ Code, Message string }
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Code, ShouldEqual, tc.code)
			So(body.Message, ShouldStartWith, "api.enter: ")
		}
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given API errors", t, func() {
		Convey("Then kinds match with errors.Is", func() {
			err := api.WrapKind("op", api.ErrBadRequest, errors.New("bad json"))
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: bad request: bad json")

			So(errors.Is(api.NewKind("op", api.ErrBackpressure), api.ErrBackpressure), ShouldBeTrue)
			So(api.NewKind("op", api.ErrBackpressure).Error(), ShouldEqual, "op: backpressure")
		})

		Convey("Then Wrap derives the kind and keeps the cause", func() {
			err := api.Wrap("op", queue.ErrFull)
			So(errors.Is(err, api.ErrBackpressure), ShouldBeTrue)
			So(errors.Is(err, queue.ErrFull), ShouldBeTrue)
			So(api.Wrap("op", nil), ShouldBeNil)
			So(api.Wrap("op", errors.New("x")).Error(), ShouldEqual, "op: x")
		})
	})
}
