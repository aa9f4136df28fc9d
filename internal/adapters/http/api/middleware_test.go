package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorCode(t *testing.T) {
	Convey("Statuses map onto the codes written by writeFailure", t, func() {
		So(errorCode(http.StatusBadRequest), ShouldEqual, "bad_request")
		So(errorCode(http.StatusNotFound), ShouldEqual, "not_found")
		So(errorCode(http.StatusTooManyRequests), ShouldEqual, "backpressure")
		So(errorCode(http.StatusServiceUnavailable), ShouldEqual, "unavailable")
		So(errorCode(http.StatusBadGateway), ShouldEqual, "internal_error")
		So(errorCode(http.StatusConflict), ShouldEqual, "bad_request")
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler that fails with backpressure", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			writeFailure(w, NewKind("test", ErrBackpressure))
		}, "middleware_test")

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

		Convey("Then the response passes through and the status is kept", func() {
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			So(rec.Body.String(), ShouldContainSubstring, `"code":"backpressure"`)
		})
	})
}
