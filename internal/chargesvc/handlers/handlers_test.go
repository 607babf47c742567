package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avvvet/charge-services/internal/chargesvc/handlers"
	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/avvvet/charge-services/internal/chargesvc/service"
	"github.com/avvvet/charge-services/internal/chargesvc/store"
	"github.com/avvvet/charge-services/internal/luhn"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type envelope struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newHandler() *handlers.Handler {
	customers := store.NewMemoryCustomerStore()
	cards := store.NewMemoryCardStore()
	charges := store.NewMemoryChargeStore()

	return handlers.NewHandler(
		service.NewCustomerService(customers),
		service.NewCardService(cards, customers),
		service.NewChargeService(charges, cards, customers, nil),
	)
}

func newRouter(h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	h.SetRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestAPI_FullWorkflow(t *testing.T) {
	r := newRouter(newHandler())

	w, env := do(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, env.Message)

	// customers
	w, env = do(t, r, http.MethodPost, "/v1/clientes", map[string]string{
		"nombre":   "Cliente de Prueba",
		"email":    "test@example.com",
		"telefono": "5512345678",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var customer struct {
		ID     string `json:"_id"`
		Nombre string `json:"nombre"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &customer))
	require.Equal(t, "Cliente de Prueba", customer.Nombre)
	require.Len(t, customer.ID, 24)

	w, env = do(t, r, http.MethodPut, "/v1/clientes/"+customer.ID, map[string]string{"nombre": "Cliente Actualizado"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "Cliente Actualizado")

	// cards
	w, env = do(t, r, http.MethodPost, "/v1/tarjetas", map[string]string{"cliente_id": customer.ID, "pan_completo": "4111111111111112"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Error, "Luhn")

	w, env = do(t, r, http.MethodPost, "/v1/tarjetas", map[string]string{"cliente_id": customer.ID, "pan_completo": "4111111111111111"})
	require.Equal(t, http.StatusCreated, w.Code)
	var card map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &card))
	require.Equal(t, "1111", card["last4"])
	require.Equal(t, "************1111", card["pan_masked"])
	for k, v := range card {
		require.NotEqual(t, "4111111111111111", v, "field %s leaks the pan", k)
	}
	approveCard := card["_id"].(string)

	w, env = do(t, r, http.MethodPost, "/v1/tarjetas", map[string]string{"cliente_id": customer.ID, "pan_completo": "4000000000002222"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &card))
	declineCard := card["_id"].(string)

	w, env = do(t, r, http.MethodGet, "/v1/clientes/"+customer.ID+"/tarjetas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cards []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	require.Len(t, cards, 2)

	// charges
	w, env = do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": approveCard, "cliente_id": customer.ID, "monto": 100.0})
	require.Equal(t, http.StatusCreated, w.Code)
	var charge map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &charge))
	require.Equal(t, "approved", charge["status"])
	require.Equal(t, "00", charge["codigo_motivo"])
	require.Equal(t, false, charge["reembolsado"])
	approvedID := charge["_id"].(string)

	w, env = do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": declineCard, "cliente_id": customer.ID, "monto": 200.0})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &charge))
	require.Equal(t, "declined", charge["status"])
	require.Equal(t, "51", charge["codigo_motivo"])
	declinedID := charge["_id"].(string)

	w, env = do(t, r, http.MethodPost, "/v1/cobros/"+approvedID+"/reembolso", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &charge))
	require.Equal(t, true, charge["reembolsado"])
	require.NotNil(t, charge["fecha_reembolso"])

	w, env = do(t, r, http.MethodPost, "/v1/cobros/"+approvedID+"/reembolso", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Error, "already been refunded")

	w, env = do(t, r, http.MethodPost, "/v1/cobros/"+declinedID+"/reembolso", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Error, "cannot refund a declined charge")

	// history
	w, env = do(t, r, http.MethodGet, "/v1/cobros/"+customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 2)

	// cleanup
	w, _ = do(t, r, http.MethodDelete, "/v1/tarjetas/"+approveCard, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/v1/tarjetas/"+declineCard, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/v1/clientes/"+customer.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, r, http.MethodGet, "/v1/clientes/"+customer.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_EmptyHistoryIsNotAnError(t *testing.T) {
	r := newRouter(newHandler())

	w, env := do(t, r, http.MethodGet, "/v1/cobros/"+primitive.NewObjectID().Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", string(env.Data))
}

func TestAPI_InvalidIDsAreClientErrors(t *testing.T) {
	r := newRouter(newHandler())

	for _, path := range []string{"/v1/clientes/not-an-id", "/v1/tarjetas/123", "/v1/cobros/xyz"} {
		w, env := do(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		require.Contains(t, env.Error, "invalid id")
	}

	w, _ := do(t, r, http.MethodPost, "/v1/cobros/zzz/reembolso", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/v1/tarjetas/"+primitive.NewObjectID().Hex(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_BadBody(t *testing.T) {
	r := newRouter(newHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/clientes", strings.NewReader("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": "a", "cliente_id": "b", "monto": "100"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_OwnershipMismatch(t *testing.T) {
	r := newRouter(newHandler())

	ids := make([]string, 2)
	for i := range ids {
		_, env := do(t, r, http.MethodPost, "/v1/clientes", map[string]string{
			"nombre": fmt.Sprintf("c%d", i), "email": fmt.Sprintf("c%d@example.com", i), "telefono": "1",
		})
		var c struct {
			ID string `json:"_id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &c))
		ids[i] = c.ID
	}

	_, env := do(t, r, http.MethodPost, "/v1/tarjetas", map[string]string{"cliente_id": ids[0], "pan_completo": "4111111111111111"})
	var card struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &card))

	w, env := do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": card.ID, "cliente_id": ids[1], "monto": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, service.ErrOwnershipMismatch.Error(), env.Error)

	w, env = do(t, r, http.MethodGet, "/v1/cobros/"+ids[1], nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", string(env.Data))
}

func TestAPI_ChargeForDeletedCustomer(t *testing.T) {
	r := newRouter(newHandler())

	_, env := do(t, r, http.MethodPost, "/v1/clientes", map[string]string{
		"nombre": "Cliente", "email": "cliente@example.com", "telefono": "1",
	})
	var customer struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &customer))

	_, env = do(t, r, http.MethodPost, "/v1/tarjetas", map[string]string{"cliente_id": customer.ID, "pan_completo": "4111111111111111"})
	var card struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &card))

	w, _ := do(t, r, http.MethodDelete, "/v1/clientes/"+customer.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, env = do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": card.ID, "cliente_id": customer.ID, "monto": 10})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, env.Error, "customer "+customer.ID)

	w, env = do(t, r, http.MethodGet, "/v1/cobros/"+customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", string(env.Data))
}

func TestAPI_ChargeJSONOmitsRefundDateUntilRefunded(t *testing.T) {
	r := newRouter(newHandler())

	_, env := do(t, r, http.MethodPost, "/v1/clientes", map[string]string{
		"nombre": "Cliente", "email": "cliente@example.com", "telefono": "1",
	})
	var customer struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &customer))
	_, env = do(t, r, http.MethodPost, "/v1/tarjetas", map[string]string{"cliente_id": customer.ID, "pan_completo": "4111111111111111"})
	var card struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &card))

	w, env := do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": card.ID, "cliente_id": customer.ID, "monto": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	var charge map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &charge))
	require.NotContains(t, charge, "fecha_reembolso")

	w, env = do(t, r, http.MethodPost, "/v1/cobros", map[string]interface{}{"tarjeta_id": card.ID, "cliente_id": customer.ID, "monto": 100.999})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Error, "decimals")
}

func TestAPI_GeneratePAN(t *testing.T) {
	r := newRouter(newHandler())

	w, env := do(t, r, http.MethodGet, "/v1/tarjetas/generate?prefix=5100&length=16", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		PAN string `json:"pan"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.PAN, 16)
	require.True(t, strings.HasPrefix(out.PAN, "5100"))
	require.True(t, luhn.Validate(out.PAN))

	w, _ = do(t, r, http.MethodGet, "/v1/tarjetas/generate?prefix=510000000000000&length=13", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/v1/tarjetas/generate?length=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_JWTProtectsDataRoutes(t *testing.T) {
	h := newHandler()
	h.InitAuth("test-secret")
	r := newRouter(h)

	w, _ := do(t, r, http.MethodGet, "/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/cobros/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token, err := jwtauth.New("HS256", []byte("test-secret"), nil).Encode(map[string]interface{}{"service_id": "test"})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/v1/cobros/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("card x: %w", store.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidID, http.StatusBadRequest},
		{service.ErrInvalidCardNumber, http.StatusBadRequest},
		{service.ErrOwnershipMismatch, http.StatusBadRequest},
		{models.ErrIllegalTransition, http.StatusBadRequest},
		{models.ErrAlreadyRefunded, http.StatusBadRequest},
		{fmt.Errorf("generating pan: %w", luhn.ErrInvalidLength), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.code, handlers.StatusFor(c.err), c.err.Error())
	}
}
