package conversation_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/weatherrelay/pkg/conversation"
)

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		status   int
		respBody string
		lastReq  *http.Request
		lastBody map[string]any
	)

	BeforeEach(func() {
		ctx = context.Background()
		status = http.StatusOK
		respBody = `{
			"input": {"text": "weather in Cairo"},
			"intents": [{"intent": "weather", "confidence": 0.98}],
			"entities": [{"entity": "city", "value": "Cairo", "location": [11, 16]}],
			"output": {"text": ["Let me check."], "nodes_visited": ["node_1"]},
			"context": {"conversation_id": "c-1"}
		}`
		lastReq, lastBody = nil, nil

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastReq = r
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &lastBody)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(respBody))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func() *conversation.Client {
		client, err := conversation.NewClient(conversation.ClientConfig{
			URL:      server.URL + "/",
			Username: "conv-user",
			Password: "conv-pass",
		})
		Expect(err).NotTo(HaveOccurred())
		return client
	}

	payload := conversation.Payload{
		WorkspaceID: "ws-123",
		Context:     map[string]any{"conversation_id": "c-1"},
		Input:       map[string]any{"text": "weather in Cairo"},
	}

	Describe("MessageURL", func() {
		It("targets the workspace with the pinned version date", func() {
			client, err := conversation.NewClient(conversation.ClientConfig{})
			Expect(err).NotTo(HaveOccurred())

			Expect(client.MessageURL("ws-123")).To(Equal(
				"https://gateway.watsonplatform.net/conversation/api/v1/workspaces/ws-123/message?version=2016-10-21",
			))
		})
	})

	Describe("Message", func() {
		It("posts input and context with basic auth", func() {
			_, err := newClient().Message(ctx, payload)
			Expect(err).NotTo(HaveOccurred())

			Expect(lastReq.Method).To(Equal(http.MethodPost))
			Expect(lastReq.URL.Path).To(Equal("/v1/workspaces/ws-123/message"))
			Expect(lastReq.URL.Query().Get("version")).To(Equal(conversation.DefaultVersionDate))

			user, pass, ok := lastReq.BasicAuth()
			Expect(ok).To(BeTrue())
			Expect(user).To(Equal("conv-user"))
			Expect(pass).To(Equal("conv-pass"))

			Expect(lastBody).To(HaveKeyWithValue("input", map[string]any{"text": "weather in Cairo"}))
			Expect(lastBody).To(HaveKeyWithValue("context", map[string]any{"conversation_id": "c-1"}))
			Expect(lastBody).NotTo(HaveKey("workspace_id"))
		})

		It("decodes the dialog reply", func() {
			resp, err := newClient().Message(ctx, payload)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.Output).NotTo(BeNil())
			Expect(resp.Output.Text).To(Equal([]string{"Let me check."}))
			Expect(resp.Output.NodesVisited).To(Equal([]string{"node_1"}))
			Expect(resp.Intents).To(HaveLen(1))

			entity, ok := resp.FirstEntity()
			Expect(ok).To(BeTrue())
			Expect(entity.Entity).To(Equal("city"))
			Expect(entity.Value).To(Equal("Cairo"))
		})

		It("leaves Output nil when the reply has none", func() {
			respBody = `{"entities": [], "intents": []}`

			resp, err := newClient().Message(ctx, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Output).To(BeNil())
		})

		It("returns the upstream error document and status", func() {
			status = http.StatusNotFound
			respBody = `{"error": "Resource not found", "code": 404}`

			_, err := newClient().Message(ctx, payload)

			var apiErr *conversation.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode()).To(Equal(http.StatusNotFound))
			Expect(apiErr.Body).To(HaveKeyWithValue("error", "Resource not found"))
			Expect(apiErr.Body).To(HaveKeyWithValue("code", float64(404)))
			Expect(apiErr.Document()).To(Equal(apiErr.Body))
		})

		It("wraps a non-JSON error body", func() {
			status = http.StatusBadGateway
			respBody = "bad gateway"

			_, err := newClient().Message(ctx, payload)

			var apiErr *conversation.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode()).To(Equal(http.StatusBadGateway))
			Expect(apiErr.Body).To(HaveKeyWithValue("error", "bad gateway"))
			Expect(apiErr.Body).To(HaveKeyWithValue("code", http.StatusBadGateway))
		})

		It("reports transport failures without a status", func() {
			client := newClient()
			server.Close()

			_, err := client.Message(ctx, payload)

			var apiErr *conversation.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Code).To(BeZero())
			Expect(apiErr.StatusCode()).To(Equal(http.StatusInternalServerError))
			Expect(apiErr.Body).NotTo(HaveKey("code"))
			Expect(apiErr.Document()).To(HaveKeyWithValue("code", http.StatusInternalServerError))
			Expect(apiErr.Document()).To(HaveKey("error"))
		})

		It("requires a workspace id", func() {
			_, err := newClient().Message(ctx, conversation.Payload{})
			Expect(err).To(HaveOccurred())
		})
	})
})
