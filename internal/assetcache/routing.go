package assetcache

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"grimoire/internal/assetcache/models"
)

// routes maps each request class to the strategy that answers it.
var routes = map[models.Class]models.Strategy{
	models.ClassCrossOrigin: models.StrategyBypass,
	models.ClassNonGet:      models.StrategyBypass,
	models.ClassDocument:    models.StrategyNetworkFirst,
	models.ClassAsset:       models.StrategyCacheFirst,
}

// Classify sorts a request whose URL is absolute. Requests to another origin
// are never cached; same-origin GETs are documents when they accept HTML or
// their URL ends in "/", assets otherwise.
func Classify(origin *url.URL, r *http.Request) models.Class {
	if !sameOrigin(origin, r.URL) {
		return models.ClassCrossOrigin
	}
	if r.Method != http.MethodGet {
		return models.ClassNonGet
	}
	if strings.Contains(r.Header.Get("Accept"), "text/html") || strings.HasSuffix(r.URL.String(), "/") {
		return models.ClassDocument
	}
	return models.ClassAsset
}

// StrategyFor returns the strategy of a class.
func StrategyFor(class models.Class) models.Strategy {
	if s, ok := routes[class]; ok {
		return s
	}
	return models.StrategyBypass
}

func sameOrigin(a, b *url.URL) bool {
	return originOf(a) == originOf(b)
}

// originOf renders scheme://host:port with the default port made explicit.
func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if port == "" {
		switch scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	return scheme + "://" + net.JoinHostPort(strings.ToLower(u.Hostname()), port)
}
