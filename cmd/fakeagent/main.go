// Command fakeagent stands in for a real Jaeger agent during manual,
// end-to-end checks of this module: it hosts the sampling-strategy
// HTTP endpoint a RemoteSampler polls (grounded on
// jaegertracing/jaeger's ClientConfigManager.GetSamplingStrategy) and
// a UDP listener that decodes the thrift-compact batches a
// transport.UDP ships, logging and counting what it receives. It is
// not part of the library and is never imported by jaegertrace.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/theplant/jaegertrace/jaegertrace"
	"github.com/theplant/jaegertrace/jaegertrace/internal/thriftudp"
	"github.com/theplant/jaegertrace/log"
	"github.com/theplant/jaegertrace/monitoring"
	"github.com/theplant/jaegertrace/server"
)

func main() {
	httpAddr := flag.String("http-addr", ":5778", "address for the sampling-strategy HTTP endpoint")
	udpAddr := flag.String("udp-addr", "127.0.0.1:6831", "address for the UDP span listener")
	defaultRate := flag.Float64("default-rate", 1.0, "default probabilistic sampling rate returned for unknown services")
	flag.Parse()

	logger := log.Default()
	monitor := monitoring.NewLogMonitor(logger)

	strategies := newStrategyStore(*defaultRate)

	httpCloser := server.GoListenAndServe(
		server.Config{Addr: *httpAddr},
		logger,
		server.Compose(
			server.DefaultMiddleware(logger),
			server.ETag,
			// Strategy polling is server-to-server, not browser
			// traffic, so origin/CSRF verification stays disabled;
			// this still exercises secure.go's CORS header wiring.
			server.SecureMiddleware(logger, server.CrossSiteConfig{
				RawAllowedOrigins:  "",
				AllowCredentials:   false,
				CSRFRequiredHeader: "",
			}),
		)(strategies.handler(logger)),
	)

	listener, err := newUDPListener(*udpAddr, logger, monitor)
	if err != nil {
		logger.Error().Log("msg", "starting UDP listener", "addr", *udpAddr, "err", err)
		os.Exit(1)
	}
	go listener.serve()

	logger.Info().Log("msg", "fakeagent running", "http_addr", *httpAddr, "udp_addr", *udpAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info().Log("msg", "fakeagent shutting down")
	listener.close()
	if err := httpCloser.Close(); err != nil {
		logger.Warn().Log("msg", "closing HTTP server", "err", err)
	}
}

// strategyStore holds the sampling strategy handed out per service
// name, falling back to a flat probabilistic rate for anything it has
// never seen configured. It mirrors jaeger's ClientConfigManager, but
// as a static in-memory table rather than one backed by Cassandra.
type strategyStore struct {
	mu          sync.Mutex
	perService  map[string]jaegertrace.SamplingStrategyResponse
	defaultRate float64
}

func newStrategyStore(defaultRate float64) *strategyStore {
	return &strategyStore{
		perService:  map[string]jaegertrace.SamplingStrategyResponse{},
		defaultRate: defaultRate,
	}
}

// handler serves GET /?service=<name>, the same query shape
// httpsampler.Client issues.
func (s *strategyStore) handler(logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		service := r.URL.Query().Get("service")
		if service == "" {
			http.Error(w, "missing service query parameter", http.StatusBadRequest)
			return
		}

		strategy := s.lookup(service)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(strategy); err != nil {
			logger.Warn().Log("msg", "encoding sampling strategy response", "service", service, "err", err)
		}
	})
}

func (s *strategyStore) lookup(service string) jaegertrace.SamplingStrategyResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strategy, ok := s.perService[service]; ok {
		return strategy
	}
	return jaegertrace.SamplingStrategyResponse{
		StrategyType:          jaegertrace.StrategyTypeProbabilistic,
		ProbabilisticSampling: &jaegertrace.ProbabilisticSamplingStrategy{SamplingRate: s.defaultRate},
	}
}

// udpListener decodes the batches a transport.UDP sends and logs/counts
// them in place of a real agent's span-forwarding pipeline.
type udpListener struct {
	conn    *net.UDPConn
	logger  log.Logger
	monitor monitoring.Monitor

	closeOnce sync.Once
}

func newUDPListener(addr string, logger log.Logger, monitor monitoring.Monitor) (*udpListener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &udpListener{conn: conn, logger: logger, monitor: monitor}, nil
}

func (l *udpListener) serve() {
	buf := make([]byte, 65000)
	for {
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if isClosedConnError(err) {
				return
			}
			l.logger.Warn().Log("msg", "reading UDP packet", "err", err)
			continue
		}

		batch, err := decodeBatch(buf[:n])
		if err != nil {
			l.logger.Warn().Log("msg", "decoding thrift-compact batch", "err", err)
			l.monitor.CountError("fakeagent.decode_failure", 1, err)
			continue
		}

		l.monitor.Count(
			"fakeagent.spans_received",
			float64(len(batch.Spans)),
			map[string]string{"service": batch.Process.ServiceName},
			nil,
		)
		for _, span := range batch.Spans {
			l.logger.Info().Log(
				"msg", "received span",
				"service", batch.Process.ServiceName,
				"operation", span.OperationName,
				"trace_id_high", span.TraceIDHigh,
				"trace_id_low", span.TraceIDLow,
				"span_id", span.SpanID,
				"duration_us", span.Duration,
			)
		}
	}
}

func (l *udpListener) close() {
	l.closeOnce.Do(func() {
		l.conn.Close()
	})
}

func decodeBatch(payload []byte) (*thriftudp.Batch, error) {
	buffer := thrift.NewTMemoryBuffer()
	if _, err := buffer.Write(payload); err != nil {
		return nil, err
	}
	protocol := thrift.NewTCompactProtocolFactory().GetProtocol(buffer)
	return thriftudp.NewDecoder(protocol).ReadBatch(context.Background())
}

func isClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
