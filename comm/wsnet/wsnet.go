// Package wsnet is a comm.Transport for groups of separate OS processes.
//
// The topology is a star: rank 0 serves a websocket endpoint and every other
// rank dials it once. Each peer link carries binary frames of little-endian
// int64 words, [src, tag, n, payload...]. Only root-adjacent routes exist,
// which is all the root-centric collectives of package comm need; a send
// between two non-root ranks fails with comm.ErrNoRoute.
//
// Rank, size and the root address come from the environment (ConfigFromEnv),
// so the same binary can be started once per rank by any launcher.
package wsnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/katalvlaran/matbench/comm"
)

// peer is one websocket link plus the inbox filled by its reader goroutine.
type peer struct {
	conn  *websocket.Conn
	wmu   sync.Mutex // gorilla allows one concurrent writer
	inbox chan frame
	err   error // set before inbox is closed
	done  chan struct{}
}

func newPeer(conn *websocket.Conn) *peer {
	p := &peer{conn: conn, inbox: make(chan frame, 16), done: make(chan struct{})}
	go p.readLoop()

	return p
}

func (p *peer) readLoop() {
	defer close(p.inbox)
	for {
		typ, msg, err := p.conn.ReadMessage()
		if err != nil {
			p.err = err
			return
		}
		if typ != websocket.BinaryMessage {
			continue
		}
		f, err := decodeFrame(msg)
		if err != nil {
			p.err = err
			return
		}
		select {
		case p.inbox <- f:
		case <-p.done:
			p.err = comm.ErrClosed
			return
		}
	}
}

func (p *peer) write(src int, tag comm.Tag, data []int64) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	return p.conn.WriteMessage(websocket.BinaryMessage, encodeFrame(src, tag, data))
}

func (p *peer) close() error {
	close(p.done)
	p.wmu.Lock()
	_ = p.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	p.wmu.Unlock()

	return p.conn.Close()
}

// Transport is one rank's end of a websocket group.
type Transport struct {
	rank, size int
	peers      []*peer // indexed by rank; nil for self and, off-root, for non-root ranks
	srv        *http.Server
	closeOnce  sync.Once
}

var _ comm.Transport = (*Transport)(nil)

// Rank returns this process' rank.
func (t *Transport) Rank() int { return t.rank }

// Size returns the group size.
func (t *Transport) Size() int { return t.size }

func (t *Transport) route(other int) (*peer, error) {
	if other < 0 || other >= t.size || other == t.rank {
		return nil, fmt.Errorf("wsnet: peer %d: %w", other, comm.ErrRank)
	}
	p := t.peers[other]
	if p == nil {
		return nil, fmt.Errorf("wsnet: %d→%d: %w", t.rank, other, comm.ErrNoRoute)
	}

	return p, nil
}

// Send writes one frame to dst. The write itself is not interruptible; ctx
// is only checked before it starts.
func (t *Transport) Send(ctx context.Context, dst int, tag comm.Tag, data []int64) error {
	p, err := t.route(dst)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = p.write(t.rank, tag, data); err != nil {
		return fmt.Errorf("wsnet: send to %d: %w: %w", dst, comm.ErrClosed, err)
	}

	return nil
}

// Recv returns the next frame received from src.
func (t *Transport) Recv(ctx context.Context, src int) (comm.Tag, []int64, error) {
	p, err := t.route(src)
	if err != nil {
		return 0, nil, err
	}
	select {
	case f, ok := <-p.inbox:
		if !ok {
			if errors.Is(p.err, comm.ErrClosed) {
				return 0, nil, fmt.Errorf("wsnet: recv from %d: %w", src, p.err)
			}
			return 0, nil, fmt.Errorf("wsnet: recv from %d: %w: %w", src, comm.ErrClosed, p.err)
		}
		return f.tag, f.data, nil
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

// Close closes every peer link and, on the root, the HTTP server.
func (t *Transport) Close() error {
	var errs []error
	t.closeOnce.Do(func() {
		for _, p := range t.peers {
			if p != nil {
				errs = append(errs, p.close())
			}
		}
		if t.srv != nil {
			errs = append(errs, t.srv.Close())
		}
	})

	return errors.Join(errs...)
}

// Server is the root's listening endpoint while the group assembles.
type Server struct {
	cfg      Config
	ln       net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader

	mu     sync.Mutex
	peers  []*peer
	joined int
	ready  chan struct{}
}

// Listen starts the root endpoint on cfg.Addr (":0" picks a free port, see Addr).
func Listen(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Rank != comm.Root {
		return nil, fmt.Errorf("wsnet: Listen on rank %d: %w", cfg.Rank, ErrConfig)
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("wsnet: listen %s: %w", cfg.Addr, err)
	}
	s := &Server{
		cfg:   cfg,
		ln:    ln,
		peers: make([]*peer, cfg.Size),
		ready: make(chan struct{}),
	}
	if cfg.Size == 1 {
		close(s.ready)
	}
	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, s.handle)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = s.srv.Serve(ln) }()

	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return
	}
	hello, err := decodeFrame(msg)
	if err != nil || hello.tag != tagHello || len(hello.data) != 2 {
		_ = conn.Close()
		return
	}
	rank, size := int(hello.data[0]), int(hello.data[1])

	s.mu.Lock()
	defer s.mu.Unlock()
	if size != s.cfg.Size || rank <= comm.Root || rank >= s.cfg.Size || s.peers[rank] != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad hello"))
		_ = conn.Close()
		return
	}
	s.peers[rank] = newPeer(conn)
	s.joined++
	if s.joined == s.cfg.Size-1 {
		close(s.ready)
	}
}

// Accept blocks until every non-root rank has joined, then returns the root
// transport. On ctx expiry the server is shut down.
func (s *Server) Accept(ctx context.Context) (*Transport, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		_ = s.srv.Close()
		return nil, fmt.Errorf("wsnet: waiting for %d peers: %w", s.cfg.Size-1, ctx.Err())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Transport{rank: comm.Root, size: s.cfg.Size, peers: s.peers, srv: s.srv}, nil
}

// Dial connects a non-root rank to the root, retrying until ctx expires so
// ranks may be started in any order.
func Dial(ctx context.Context, cfg Config) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Rank == comm.Root {
		return nil, fmt.Errorf("wsnet: Dial on root: %w", ErrConfig)
	}
	u := url.URL{Scheme: "ws", Host: cfg.Addr, Path: cfg.Path}
	var (
		conn *websocket.Conn
		err  error
	)
	for {
		conn, _, err = websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wsnet: dial %s: %w", u.String(), err)
		case <-time.After(cfg.DialBackoff):
		}
	}
	hello := encodeFrame(cfg.Rank, tagHello, []int64{int64(cfg.Rank), int64(cfg.Size)})
	if err = conn.WriteMessage(websocket.BinaryMessage, hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wsnet: hello: %w", err)
	}
	peers := make([]*peer, cfg.Size)
	peers[comm.Root] = newPeer(conn)

	return &Transport{rank: cfg.Rank, size: cfg.Size, peers: peers}, nil
}

// Open joins the group described by cfg: the root listens and waits for all
// peers, every other rank dials the root.
func Open(ctx context.Context, cfg Config) (*Transport, error) {
	if cfg.Rank != comm.Root {
		return Dial(ctx, cfg)
	}
	s, err := Listen(cfg)
	if err != nil {
		return nil, err
	}

	return s.Accept(ctx)
}
