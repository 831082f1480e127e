package integration_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(&c)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func decodeResponse[T any](t testing.TB, body io.Reader) T {
	var out T
	require.NoError(t, json.NewDecoder(body).Decode(&out))

	return out
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), string(content))
	require.NoError(t, err)
}

func countRows(t testing.TB, db *pgxpool.Pool, query string, args ...any) int {
	var count int
	err := db.QueryRow(context.Background(), query, args...).Scan(&count)
	require.NoError(t, err)

	return count
}

// signNotification computes the signature the gateway would attach to a
// notification with the given fields, using the suite's test credentials.
func signNotification(fields map[string]string) string {
	raw := "accessKey=" + TestAccessKey +
		"&amount=" + fields["amount"] +
		"&extraData=" + fields["extraData"] +
		"&message=" + fields["message"] +
		"&orderId=" + fields["orderId"] +
		"&orderInfo=" + fields["orderInfo"] +
		"&orderType=" + fields["orderType"] +
		"&partnerCode=" + fields["partnerCode"] +
		"&payType=" + fields["payType"] +
		"&requestId=" + fields["requestId"] +
		"&responseTime=" + fields["responseTime"] +
		"&resultCode=" + fields["resultCode"] +
		"&transId=" + fields["transId"]

	h := hmac.New(sha256.New, []byte(TestSecretKey))
	h.Write([]byte(raw))

	return hex.EncodeToString(h.Sum(nil))
}

// notificationFields builds the field set for a gateway notification about
// the given order, signs it, and returns it ready to serialize.
func notificationFields(orderId string, amount int64, resultCode int, message string) map[string]string {
	fields := map[string]string{
		"partnerCode":  TestPartnerCode,
		"accessKey":    TestAccessKey,
		"requestId":    orderId,
		"orderId":      orderId,
		"orderInfo":    "Tickets",
		"orderType":    "momo_wallet",
		"transId":      "tx-" + orderId,
		"amount":       strconv.FormatInt(amount, 10),
		"resultCode":   strconv.Itoa(resultCode),
		"message":      message,
		"payType":      "qr",
		"responseTime": "1756700600",
		"extraData":    "",
	}
	fields["signature"] = signNotification(fields)

	return fields
}

func notificationBody(t testing.TB, fields map[string]string) io.Reader {
	payload := map[string]any{
		"partnerCode":  fields["partnerCode"],
		"accessKey":    fields["accessKey"],
		"requestId":    fields["requestId"],
		"orderId":      fields["orderId"],
		"orderInfo":    fields["orderInfo"],
		"orderType":    fields["orderType"],
		"transId":      fields["transId"],
		"message":      fields["message"],
		"payType":      fields["payType"],
		"extraData":    fields["extraData"],
		"signature":    fields["signature"],
		"amount":       mustParseInt(t, fields["amount"]),
		"resultCode":   mustParseIntSmall(t, fields["resultCode"]),
		"responseTime": mustParseInt(t, fields["responseTime"]),
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func jsonBody(t testing.TB, payload any) io.Reader {
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func notificationQuery(fields map[string]string) string {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}

	return values.Encode()
}

func mustParseInt(t testing.TB, s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)

	return v
}

func mustParseIntSmall(t testing.TB, s string) int {
	v, err := strconv.Atoi(s)
	require.NoError(t, err)

	return v
}
