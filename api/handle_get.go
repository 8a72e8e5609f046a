package api

import (
	"net"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/ipwhere/ipwhere/ipwherelib"
	"github.com/ipwhere/ipwhere/providers"
)

type lookupEnvelope struct {
	Result ipwherelib.LookupResponse `json:"result"`
}

func (s *Server) handleSelf(w http.ResponseWriter, req *http.Request) {
	ipAddr := clientAddress(req)
	if ipAddr == nil {
		s.sendError(w, nil, "Cannot detect your IP address", http.StatusBadRequest)

		return
	}

	s.resolveOne(w, req, ipAddr)
}

func (s *Server) handleResolveOne(w http.ResponseWriter, req *http.Request) {
	ipAddr := net.ParseIP(chi.URLParam(req, "ip"))
	if ipAddr == nil {
		s.sendError(w, nil, "Cannot parse given IP address", http.StatusBadRequest)

		return
	}

	s.resolveOne(w, req, ipAddr)
}

func (s *Server) resolveOne(w http.ResponseWriter, req *http.Request, ipAddr net.IP) {
	resolved, err := s.resolver.LookupTarget(req.Context(), s.kinds, ipAddr, s.lookupOptions())
	if err != nil {
		s.sendError(w, err, "Cannot resolve IP address", http.StatusBadGateway)

		return
	}

	s.encodeJSON(w, lookupEnvelope{Result: resolved})
}

func (s *Server) handleProviders(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Providers []string `json:"providers"`
	}{
		Providers: providers.Names(),
	}

	s.encodeJSON(w, response)
}

func clientAddress(req *http.Request) net.IP {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		// RealIP middleware may have rewritten RemoteAddr into a bare
		// address already.
		host = req.RemoteAddr
	}

	return net.ParseIP(host)
}
