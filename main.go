// newsline
// ========
// A single-process REST service for users, articles and comments with
// upvote/downvote scoring. State lives in memory and is snapshotted to
// disk after every successful mutating request.
//
// Boot the server:
// ----------------
// $ go run main.go
//
// Client requests:
// ----------------
// $ curl -X POST -d '{"username":"alice"}' http://localhost:4000/users
// {"user":{"username":"alice","articleIds":[],"commentIds":[]}}
//
// $ curl -X POST -d '{"article":{"title":"T","url":"http://x","username":"alice"}}' http://localhost:4000/articles
// {"article":{"id":1,"title":"T","url":"http://x","username":"alice","commentIds":[],"upvotedBy":[],"downvotedBy":[]}}
//
// $ curl -X PUT -d '{"username":"alice"}' http://localhost:4000/articles/1/upvote
// {"article":{"id":1,"title":"T","url":"http://x","username":"alice","commentIds":[],"upvotedBy":["alice"],"downvotedBy":[]}}
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/newsline/newsline/internal/api"
	"github.com/newsline/newsline/internal/config"
	"github.com/newsline/newsline/internal/persist"
	"github.com/newsline/newsline/internal/routes"
	"github.com/newsline/newsline/internal/store"
	"github.com/newsline/newsline/internal/transport"
)

const ServiceName = "newsline"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      config.Config
}

func main() {
	// nolint
	var (
		routesFlag = flag.Bool("routes", false, "Generate router documentation")
	)

	flag.Parse()

	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	cfg := config.FromEnv()
	a := App{
		sugarLogger: sugar,
		config:      cfg,
	}

	promConfig := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(promConfig.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(promConfig, c)
	if err != nil {
		a.sugarLogger.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)
	labels := []attribute.KeyValue{
		attribute.String("service", ServiceName)}
	completed := metric.Must(meter).NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests"),
	).Bind(labels...)
	defer completed.Unbind()

	st := store.New()

	var persister persist.Persister = persist.NewFileStore(cfg.DataFile)
	if cfg.TestMode {
		persister = persist.Noop{}
	} else {
		snap, err := persister.Load()
		if err != nil {
			a.sugarLogger.Errorw("snapshot load failed", "error", err)
		} else {
			st.Restore(snap)
		}
	}

	dispatcher := api.NewDispatcher(st)
	h := transport.New(dispatcher, persister, sugar, &completed)

	r := chi.NewRouter()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Every registered route and both fallbacks point at the same
	// handler: the dispatcher owns route matching, chi only hosts the
	// middleware chain and the generated docs. Unmatched shapes and
	// methods come back 400 from the dispatcher, never chi's 404/405.
	for route := range api.Registry() {
		r.MethodFunc(route.Method, chiPattern(route.Template), h.ServeHTTP)
	}
	r.NotFound(h.ServeHTTP)
	r.MethodNotAllowed(h.ServeHTTP)

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if *routesFlag {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/newsline/newsline",
			Intro:       "Welcome to the newsline generated docs.",
		}))

		return
	}

	go func() {
		err := http.ListenAndServe(cfg.DiagAddr, diagRouter)
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	a.sugarLogger.Infow("listening", "addr", cfg.Addr())
	err = http.ListenAndServe(cfg.Addr(), r)
	if err != nil {
		a.sugarLogger.Errorw(err.Error())
	}
}

// chiPattern rewrites a dispatch template into chi's placeholder
// syntax for registration and docs.
func chiPattern(t routes.Template) string {
	s := strings.ReplaceAll(string(t), ":id", "{id}")

	return strings.ReplaceAll(s, ":username", "{username}")
}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}

// This is entirely optional, but adds our own logic to the
// render.Respond method: error values are logged and masked instead
// of being serialized to the client.
// nolint
func init() {
	render.Respond = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		if err, ok := v.(error); ok {

			// We set a default error status response code if one hasn't been set.
			if _, ok := r.Context().Value(render.StatusCtxKey).(int); !ok {
				w.WriteHeader(400)
			}

			// We log the error
			// nolint
			fmt.Printf("Logging err: %s\n", err.Error())

			render.DefaultResponder(w, r, render.M{"status": "error"})

			return
		}

		render.DefaultResponder(w, r, v)
	}
}
