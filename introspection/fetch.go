package introspection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Query is the standard introspection query.
const Query = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
    directives {
      name
      description
      isRepeatable
      locations
      args {
        ...InputValue
      }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

type gqlReq struct {
	Query string `json:"query"`
}

// Fetch runs the introspection query against endpoint and returns
// the full response document, {"data": {...}}. http(s) endpoints are
// queried with a POST request, ws(s) endpoints with the
// graphql-transport-ws protocol.
//
func Fetch(ctx context.Context, client *http.Client, endpoint *url.URL, headers http.Header) ([]byte, error) {
	zap.L().Info("fetching types via introspection", zap.String("endpoint", endpoint.String()))

	var data json.RawMessage
	var err error
	switch endpoint.Scheme {
	case "http", "https":
		data, err = fetchHTTP(ctx, client, endpoint, headers)
	case "ws", "wss":
		data, err = fetchWS(ctx, endpoint, headers)
	default:
		return nil, fmt.Errorf("introspection: unsupported scheme: %q", endpoint.Scheme)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(response{Data: data})
}

func fetchHTTP(ctx context.Context, client *http.Client, endpoint *url.URL, headers http.Header) (json.RawMessage, error) {
	body, err := json.Marshal(gqlReq{Query: Query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		for _, s := range v {
			req.Header.Add(k, s)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("introspection: unexpected status %s: %s", resp.Status, bytes.TrimSpace(b))
	}

	var r response
	if err = json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("introspection: malformed response: %w", err)
	}
	return checkResponse(r)
}

func checkResponse(r response) (json.RawMessage, error) {
	if len(r.Errors) > 0 {
		return nil, fmt.Errorf("introspection: server returned errors: %s", r.Errors[0].Message)
	}
	if len(r.Data) == 0 || bytes.Equal(r.Data, []byte("null")) {
		return nil, fmt.Errorf("introspection: response has no data")
	}
	return r.Data, nil
}

// wsMessage is a graphql-transport-ws protocol message.
type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const wsSubprotocol = "graphql-transport-ws"

func fetchWS(ctx context.Context, endpoint *url.URL, headers http.Header) (json.RawMessage, error) {
	dialer := websocket.Dialer{Subprotocols: []string{wsSubprotocol}}
	conn, _, err := dialer.DialContext(ctx, endpoint.String(), headers)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// Unblock pending reads and writes once ctx is done.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	}

	if err = conn.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(gqlReq{Query: Query})
	for {
		var msg wsMessage
		if err = conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		switch msg.Type {
		case "connection_ack":
			err = conn.WriteJSON(wsMessage{ID: "1", Type: "subscribe", Payload: payload})
		case "ping":
			err = conn.WriteJSON(wsMessage{Type: "pong"})
		case "next":
			var r response
			if err = json.Unmarshal(msg.Payload, &r); err != nil {
				return nil, fmt.Errorf("introspection: malformed response: %w", err)
			}
			conn.WriteJSON(wsMessage{ID: "1", Type: "complete"})
			return checkResponse(r)
		case "error":
			return nil, fmt.Errorf("introspection: server returned errors: %s", msg.Payload)
		case "complete":
			return nil, fmt.Errorf("introspection: subscription completed without data")
		}
		if err != nil {
			return nil, err
		}
	}
}
