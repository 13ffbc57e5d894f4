package inspect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/metagen/internal/compiler"
	"github.com/toyz/metagen/internal/dsl"
	"github.com/toyz/metagen/internal/generator"
)

const model = `
module sales "example.com/shop/gen/sales"

choice OrderStatus {
	OPEN "Open"
	CLOSED "Closed"
}

object Order {
	field status choice OrderStatus
	property UNIQUEIDENTIFIED
	property VERSIONED
}

object Product {
	property UNIQUEIDENTIFIED
	property VERSIONED
}

object ORDERLINE {
	property UNIQUEIDENTIFIED
	property LINKOBJECTTOMASTER(left = Order, right = Product)
}

report OrderByStatus on Order {
	column status
}
`

func newCompiled(t *testing.T) *compiler.Compiler {
	t.Helper()
	c := compiler.New(nil)
	loader := dsl.NewLoader(c, nil, nil)
	require.NoError(t, loader.AddSource("model.mg", []byte(model)))
	require.NoError(t, loader.Load())
	_, err := c.Compile()
	require.NoError(t, err)
	return c
}

func get(t *testing.T, server WebServer, path string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)

	if fs, ok := server.(*FiberServer); ok {
		resp, err := fs.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, body
	}

	handler, ok := server.(interface{ Handler() http.Handler })
	require.True(t, ok)
	rec := httptest.NewRecorder()
	handler.Handler().ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func TestInspector_Engines(t *testing.T) {
	c := newCompiled(t)

	for _, engine := range []string{EngineGin, EngineEcho, EngineFiber} {
		t.Run(engine, func(t *testing.T) {
			server, err := NewServer(engine)
			require.NoError(t, err)
			New(c, generator.Config{Format: true}, nil).Register(server)

			code, body := get(t, server, "/health")
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{"status":"ok","compiled":true}`, string(body))

			code, body = get(t, server, "/stats")
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{"modules":1,"objects":3,"properties":7,"bound":2,"hooks":2}`, string(body))

			code, body = get(t, server, "/modules/sales/objects/Product")
			require.Equal(t, http.StatusOK, code)
			var object ObjectView
			require.NoError(t, json.Unmarshal(body, &object))
			assert.True(t, object.Finalized)
			codes := make([]string, len(object.Properties))
			for i, p := range object.Properties {
				codes[i] = p.Code
			}
			assert.Equal(t, []string{"UNIQUEIDENTIFIED", "VERSIONED", "RIGHTFORLINKTOMASTER:ORDERLINE"}, codes)
			right := object.Properties[2]
			assert.Len(t, right.Hooks, 2)
			assert.Contains(t, right.Dependencies, "VERSIONED")

			code, body = get(t, server, "/modules/nope")
			assert.Equal(t, http.StatusNotFound, code)
			assert.JSONEq(t, `{"error":"module \"nope\" not found"}`, string(body))

			code, _ = get(t, server, "/modules/sales/objects/Nope")
			assert.Equal(t, http.StatusNotFound, code)
		})
	}
}

func TestInspector_ModuleAndReports(t *testing.T) {
	server := NewGinServer()
	New(newCompiled(t), generator.Config{}, nil).Register(server)

	code, body := get(t, server, "/modules/sales")
	require.Equal(t, http.StatusOK, code)
	var module ModuleView
	require.NoError(t, json.Unmarshal(body, &module))
	assert.Equal(t, "example.com/shop/gen/sales", module.Path)
	assert.Len(t, module.Objects, 3)
	require.Len(t, module.Choices, 1)
	assert.Equal(t, []string{"OPEN", "CLOSED"}, module.Choices[0].Values)

	code, body = get(t, server, "/reports")
	require.Equal(t, http.StatusOK, code)
	var reports []ReportView
	require.NoError(t, json.Unmarshal(body, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "sales/Order", reports[0].Object)
	assert.Equal(t, []string{"status"}, reports[0].Columns)
}

func TestInspector_Files(t *testing.T) {
	server := NewEchoServer()
	New(newCompiled(t), generator.Config{Format: true}, nil).Register(server)

	code, body := get(t, server, "/modules/sales/objects/Order/files")
	require.Equal(t, http.StatusOK, code)
	var file map[string]string
	require.NoError(t, json.Unmarshal(body, &file))
	assert.Equal(t, "sales/order_gen.go", file["path"])
	assert.Contains(t, file["content"], "func (o *Order) DeleteVersioned(")
}

func TestInspector_FilesBeforeCompile(t *testing.T) {
	c := compiler.New(nil)
	loader := dsl.NewLoader(c, nil, nil)
	require.NoError(t, loader.AddSource("model.mg", []byte(model)))
	require.NoError(t, loader.Load())

	server := NewFiberServer()
	New(c, generator.Config{}, nil).Register(server)

	code, _ := get(t, server, "/modules/sales/objects/Order/files")
	assert.Equal(t, http.StatusConflict, code)
	code, body := get(t, server, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok","compiled":false}`, string(body))
}

func TestGinServer_StartStop(t *testing.T) {
	t.Run("stop while serving", func(t *testing.T) {
		server := NewGinServer()
		done := make(chan error, 1)
		go func() { done <- server.Start("127.0.0.1:0") }()

		require.Eventually(t, func() bool {
			server.mu.Lock()
			defer server.mu.Unlock()
			return server.server != nil
		}, time.Second, 5*time.Millisecond)
		require.NoError(t, server.Stop(context.Background()))

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Start did not return after Stop")
		}
	})

	t.Run("stop before start", func(t *testing.T) {
		server := NewGinServer()
		require.NoError(t, server.Stop(context.Background()))
		assert.NoError(t, server.Start("127.0.0.1:0"))
	})
}

func TestNewServer(t *testing.T) {
	tests := []struct {
		engine string
		name   string
	}{
		{"", "Gin"},
		{"gin", "Gin"},
		{"ECHO", "Echo"},
		{"fiber", "Fiber"},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			server, err := NewServer(tt.engine)
			require.NoError(t, err)
			assert.Equal(t, tt.name, server.Name())
		})
	}

	_, err := NewServer("martini")
	assert.Error(t, err)
}
