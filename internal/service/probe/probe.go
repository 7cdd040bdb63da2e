package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/model/chat"
)

// DefaultPorts are the candidate ports probed when none are given.
var DefaultPorts = []int{5000, 5001, 8000, 8080, 3000}

// Result is the outcome of probing one port.
type Result struct {
	Port   int
	Status int
	Body   map[string]any
	Err    error
}

// OK reports whether the port answered 200 with a decodable body.
func (r Result) OK() bool {
	return r.Err == nil && r.Status == http.StatusOK
}

// Prober 并发探测本机各端口上的对话服务。
type Prober struct {
	host   string
	client *http.Client
	logger *zap.Logger
}

// New creates a prober for host (usually "localhost") with a per-request timeout.
func New(host string, timeout time.Duration, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		host:   host,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Probe POSTs a greeting to /api/chat on every port concurrently.
// Results keep the order of ports.
func (p *Prober) Probe(ctx context.Context, ports []int) []Result {
	if len(ports) == 0 {
		ports = DefaultPorts
	}

	results := make([]Result, len(ports))
	wg := conc.NewWaitGroup()
	for i, port := range ports {
		wg.Go(func() {
			results[i] = p.probeOne(ctx, port)
		})
	}
	wg.Wait()
	return results
}

// First returns the first successful result in candidate order.
func First(results []Result) (Result, bool) {
	for _, r := range results {
		if r.OK() {
			return r, true
		}
	}
	return Result{}, false
}

func (p *Prober) probeOne(ctx context.Context, port int) Result {
	res := Result{Port: port}

	payload, err := json.Marshal(chat.Request{
		Messages: []chat.Message{
			{Role: chat.RoleSystem, Content: "You are a helpful assistant."},
			{Role: chat.RoleUser, Content: "Hello, are you there?"},
		},
		Model: "qwen2-1.8b-instruct-q4_k_m.gguf",
	})
	if err != nil {
		res.Err = fmt.Errorf("encode request: %w", err)
		return res
	}

	url := "http://" + net.JoinHostPort(p.host, strconv.Itoa(port)) + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		res.Err = fmt.Errorf("create request: %w", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		res.Err = err
		p.logger.Debug("probe failed", zap.Int("port", port), zap.Error(err))
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return res
	}
	if err := json.NewDecoder(resp.Body).Decode(&res.Body); err != nil {
		res.Err = fmt.Errorf("decode response: %w", err)
	}
	return res
}
