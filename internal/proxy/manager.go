package proxy

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Manager handles the rotation of proxies and user agents.
type Manager struct {
	proxies    []*url.URL
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
}

func NewManager(proxies, userAgents []string) (*Manager, error) {
	m := &Manager{userAgents: userAgents}
	for _, raw := range proxies {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q: scheme and host required", raw)
		}
		m.proxies = append(m.proxies, u)
	}
	return m, nil
}

// GetProxy returns a proxy URL from the list, rotating sequentially.
func (m *Manager) GetProxy() *url.URL {
	if len(m.proxies) == 0 {
		return nil // No proxy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proxy := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return proxy
}

// GetUserAgent returns a random user agent string.
func (m *Manager) GetUserAgent() string {
	if len(m.userAgents) == 0 {
		return ""
	}
	return m.userAgents[rand.Intn(len(m.userAgents))]
}

// Client builds the HTTP client used for page and image requests. With no
// proxies or user agents configured it behaves like a stock client.
func (m *Manager) Client(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if len(m.proxies) > 0 {
		transport.Proxy = func(*http.Request) (*url.URL, error) {
			return m.GetProxy(), nil
		}
	}
	return &http.Client{
		Transport: &userAgentTransport{next: transport, manager: m},
		Timeout:   timeout,
	}
}

type userAgentTransport struct {
	next    http.RoundTripper
	manager *Manager
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		if ua := t.manager.GetUserAgent(); ua != "" {
			req = req.Clone(req.Context())
			req.Header.Set("User-Agent", ua)
		}
	}
	return t.next.RoundTrip(req)
}
