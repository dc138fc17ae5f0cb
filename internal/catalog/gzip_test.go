package catalog

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

func gzipHandler(h http.Handler) http.Handler {
	wrapped, err := gzhttp.NewWrapper(gzhttp.MinSize(0))
	if err != nil {
		panic(err)
	}
	return wrapped(h)
}
