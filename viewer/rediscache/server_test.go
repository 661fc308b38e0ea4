// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rediscache

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memServer is an in-process server speaking the subset of RESP2 that
// Cache uses: PING, HSET, HMGET, EXPIRE, TTL, DEL and MULTI/EXEC.
// Everything else, including HELLO, is answered with an error, which
// the client treats as an old server.
type memServer struct {
	ln net.Listener

	mu     sync.Mutex
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
	execs  int
}

func startMemServer(t *testing.T) *memServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &memServer{
		ln:     ln,
		hashes: make(map[string]map[string]string),
		ttls:   make(map[string]time.Duration),
	}
	go s.serve()
	t.Cleanup(func() { ln.Close() })
	return s
}

// URL returns a redis:// URL for the server.
func (s *memServer) URL() string {
	return "redis://" + s.ln.Addr().String() + "/0?protocol=2"
}

func (s *memServer) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(c)
	}
}

func (s *memServer) handle(c net.Conn) {
	defer c.Close()
	r := bufio.NewReader(c)
	w := bufio.NewWriter(c)
	var (
		queue [][]string
		multi bool
	)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		var reply string
		switch strings.ToUpper(args[0]) {
		case "MULTI":
			multi, queue = true, nil
			reply = "+OK\r\n"
		case "EXEC":
			s.mu.Lock()
			s.execs++
			s.mu.Unlock()
			reply = fmt.Sprintf("*%d\r\n", len(queue))
			for _, q := range queue {
				reply += s.do(q)
			}
			multi, queue = false, nil
		default:
			if multi {
				queue = append(queue, args)
				reply = "+QUEUED\r\n"
			} else {
				reply = s.do(args)
			}
		}
		if _, err := w.WriteString(reply); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

// readCommand reads one command, sent as an array of bulk strings.
func readCommand(r *bufio.Reader) ([]string, error) {
	n, err := readHeader(r, '*')
	if err != nil {
		return nil, err
	}
	args := make([]string, n)
	for i := range args {
		size, err := readHeader(r, '$')
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args[i] = string(buf[:size])
	}
	if n == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

func readHeader(r *bufio.Reader, kind byte) (int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	if line[0] != kind {
		return 0, fmt.Errorf("got %q, want %c header", line, kind)
	}
	return strconv.Atoi(strings.TrimSpace(line[1:]))
}

func bulk(s string) string {
	return fmt.Sprintf("$%d\r\n%s\r\n", len(s), s)
}

func (s *memServer) do(args []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cmd := strings.ToUpper(args[0]); cmd {
	case "PING":
		return "+PONG\r\n"
	case "HSET":
		h := s.hashes[args[1]]
		if h == nil {
			h = make(map[string]string)
			s.hashes[args[1]] = h
		}
		added := 0
		for i := 2; i+1 < len(args); i += 2 {
			if _, ok := h[args[i]]; !ok {
				added++
			}
			h[args[i]] = args[i+1]
		}
		return fmt.Sprintf(":%d\r\n", added)
	case "HMGET":
		h := s.hashes[args[1]]
		reply := fmt.Sprintf("*%d\r\n", len(args)-2)
		for _, f := range args[2:] {
			if v, ok := h[f]; ok {
				reply += bulk(v)
			} else {
				reply += "$-1\r\n"
			}
		}
		return reply
	case "EXPIRE":
		if _, ok := s.hashes[args[1]]; !ok {
			return ":0\r\n"
		}
		sec, err := strconv.Atoi(args[2])
		if err != nil {
			return "-ERR value is not an integer\r\n"
		}
		s.ttls[args[1]] = time.Duration(sec) * time.Second
		return ":1\r\n"
	case "TTL":
		if _, ok := s.hashes[args[1]]; !ok {
			return ":-2\r\n"
		}
		ttl, ok := s.ttls[args[1]]
		if !ok {
			return ":-1\r\n"
		}
		return fmt.Sprintf(":%d\r\n", int(ttl/time.Second))
	case "DEL":
		n := 0
		for _, k := range args[1:] {
			if _, ok := s.hashes[k]; ok {
				n++
			}
			delete(s.hashes, k)
			delete(s.ttls, k)
		}
		return fmt.Sprintf(":%d\r\n", n)
	default:
		return fmt.Sprintf("-ERR unknown command '%s'\r\n", cmd)
	}
}
