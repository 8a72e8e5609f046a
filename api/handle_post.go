package api

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"

	"github.com/ipwhere/ipwhere/ipwherelib"
	"github.com/ipwhere/ipwhere/providers"
)

var resolveBatchRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "ips"
        ],
        "additionalProperties": false,
        "properties": {
            "ips": {
                "type": "array",
                "minItems": 1,
                "items": {
                    "anyOf": [
                        {
                            "type": "string",
                            "format": "ipv4",
                            "minLength": 7,
                            "maxLength": 15
                        },
                        {
                            "type": "string",
                            "format": "ipv6",
                            "minLength": 2,
                            "maxLength": 39
                        }
                    ]
                }
            },
            "providers": {
                "type": "array",
                "items": {
                    "type": "string",
                    "minLength": 1
                }
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type resolveBatchRequest struct {
	IPs       []net.IP `json:"ips"`
	Providers []string `json:"providers"`
}

type resolveBatchItem struct {
	IP     net.IP                     `json:"ip"`
	Result *ipwherelib.LookupResponse `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

type resolveBatchResponse struct {
	Results []resolveBatchItem `json:"results"`
}

type resolveBatchTask struct {
	ctx     context.Context
	ip      net.IP
	kinds   []ipwherelib.Kind
	results []resolveBatchItem
	index   int
	wg      *sync.WaitGroup
}

func (s *Server) handleResolveBatch(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		s.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := ioutil.ReadAll(req.Body)

	req.Body.Close()

	if err != nil {
		s.sendError(w, err, "Cannot read request body", http.StatusBadRequest)

		return
	}

	errs, err := resolveBatchRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		s.sendError(w, err, "Cannot validate body", http.StatusInternalServerError)

		return
	}

	if len(errs) > 0 {
		s.sendError(w, errs[0], "Invalid request body", http.StatusBadRequest)

		return
	}

	parsedRequest := &resolveBatchRequest{}
	if err := json.Unmarshal(bodyBytes, parsedRequest); err != nil {
		s.sendError(w, err, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	kinds := s.kinds

	if len(parsedRequest.Providers) > 0 {
		kinds = make([]ipwherelib.Kind, 0, len(parsedRequest.Providers))

		for _, v := range parsedRequest.Providers {
			kind, err := providers.ParseKind(v)
			if err != nil {
				s.sendError(w, err, "Unknown provider requested", http.StatusBadRequest)

				return
			}

			kinds = append(kinds, kind)
		}
	}

	results := make([]resolveBatchItem, len(parsedRequest.IPs))
	wg := &sync.WaitGroup{}

	for i, v := range parsedRequest.IPs {
		task := &resolveBatchTask{
			ctx:     req.Context(),
			ip:      v,
			kinds:   kinds,
			results: results,
			index:   i,
			wg:      wg,
		}

		wg.Add(1)

		if err := s.workerPool.Invoke(task); err != nil {
			wg.Done()

			s.sendError(w, err, "Cannot schedule a lookup", http.StatusServiceUnavailable)

			return
		}
	}

	wg.Wait()

	s.encodeJSON(w, resolveBatchResponse{Results: results})
}

func (s *Server) resolveBatchTask(args interface{}) {
	task := args.(*resolveBatchTask)
	defer task.wg.Done()

	item := resolveBatchItem{
		IP: task.ip,
	}

	resolved, err := s.resolver.LookupTarget(task.ctx, task.kinds, task.ip, s.lookupOptions())
	if err != nil {
		item.Error = err.Error()
	} else {
		item.Result = &resolved
	}

	task.results[task.index] = item
}
