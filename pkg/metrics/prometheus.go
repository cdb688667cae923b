package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var defaultMetricPath = "/metrics"

// Prometheus exposes standard HTTP metrics for a gin engine: request count,
// latency histogram, and request/response sizes, partitioned by code, method
// and route template.
type Prometheus struct {
	reqCnt  *prometheus.CounterVec
	reqDur  *prometheus.HistogramVec
	reqSz   *prometheus.SummaryVec
	resSz   *prometheus.SummaryVec
	router  *gin.Engine
	addr    string
	urlFn   func(c *gin.Context) string
	log     *zap.SugaredLogger
	metPath string
}

type NewPrometheusOptions struct {
	Subsystem string
	// ReqCntURLLabelMappingFn maps a request to its url label; defaults to the
	// route template to keep cardinality bounded.
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  *zap.SugaredLogger
}

func NewPrometheus(opts NewPrometheusOptions) *Prometheus {
	sub := opts.Subsystem
	if sub == "" {
		sub = "gin"
	}
	urlFn := opts.ReqCntURLLabelMappingFn
	if urlFn == nil {
		urlFn = func(c *gin.Context) string { return c.FullPath() }
	}

	p := &Prometheus{
		urlFn:   urlFn,
		log:     opts.Logger,
		metPath: defaultMetricPath,
	}

	p.reqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: sub,
		Name:      "req_total",
		Help:      "How many HTTP requests processed, partitioned by status code, method and url.",
	}, []string{"code", "method", "url"})

	p.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: sub,
		Name:      "req_dur_ms",
		Help:      "The HTTP request latencies in milliseconds.",
	}, []string{"code", "method", "url"})

	p.reqSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: sub,
		Name:      "req_sz_bytes",
		Help:      "The HTTP request sizes in bytes.",
	}, []string{"code", "method", "url"})

	p.resSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: sub,
		Name:      "resp_sz_bytes",
		Help:      "The HTTP response sizes in bytes.",
	}, []string{"code", "method", "url"})

	prometheus.MustRegister(p.reqCnt, p.reqDur, p.reqSz, p.resSz)
	return p
}

// SetListenAddress serves /metrics on its own listener instead of the
// instrumented engine.
func (p *Prometheus) SetListenAddress(addr string) {
	p.addr = addr
	if addr != "" {
		p.router = gin.New()
	}
}

// Use attaches the middleware to e and starts the metrics endpoint.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.handlerFunc())
	p.setMetricsPath(e)
}

func (p *Prometheus) setMetricsPath(e *gin.Engine) {
	if p.addr != "" {
		p.router.GET(p.metPath, gin.WrapH(promhttp.Handler()))
		go func() {
			if err := p.router.Run(p.addr); err != nil && p.log != nil {
				p.log.Errorf("metrics listener error: %v", err)
			}
		}()
		return
	}
	e.GET(p.metPath, gin.WrapH(promhttp.Handler()))
}

func (p *Prometheus) handlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.metPath {
			c.Next()
			return
		}

		start := time.Now()
		reqSz := computeApproximateRequestSize(c.Request)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlFn(c)
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)

		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(reqSz))
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(c.Writer.Size()))
	}
}

func computeApproximateRequestSize(r *http.Request) int {
	s := len(r.URL.Path) + len(r.Method) + len(r.Proto)
	for name, values := range r.Header {
		s += len(name)
		for _, v := range values {
			s += len(v)
		}
	}
	s += len(r.Host)
	if r.ContentLength != -1 {
		s += int(r.ContentLength)
	}
	return s
}
