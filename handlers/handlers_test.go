package handlers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfsiocr/analysis"
	"bfsiocr/auth"
	"bfsiocr/encryption"
	"bfsiocr/logger"
	"bfsiocr/marketdata"
	"bfsiocr/messages"
	"bfsiocr/models"
	"bfsiocr/ocr"
	"bfsiocr/session"
	"bfsiocr/views"
)

type fakeMarket struct {
	latest     *models.Quote
	latestErr  error
	bars       []models.PriceBar
	historyErr error
}

func (f *fakeMarket) Latest(context.Context, string) (*models.Quote, error) {
	return f.latest, f.latestErr
}

func (f *fakeMarket) History(context.Context, string, time.Time, time.Time) ([]models.PriceBar, error) {
	return f.bars, f.historyErr
}

func newTestApp(t *testing.T, engine ocr.Engine, market marketdata.Provider) *App {
	t.Helper()
	log := logger.Discard()

	users := auth.NewStore()
	catalog, err := messages.Load("en")
	require.NoError(t, err)
	renderer, err := views.New()
	require.NoError(t, err)
	hashKey, blockKey, err := encryption.SessionKeys("test-secret")
	require.NoError(t, err)

	return &App{
		Users:          users,
		Sessions:       session.NewManager(session.Options{HashKey: hashKey, BlockKey: blockKey, MaxAge: 3600}, users, log),
		Messages:       catalog,
		Views:          renderer,
		Analysis:       analysis.NewDispatcher(engine, market, []string{"eng"}, log),
		MaxUploadBytes: 1 << 20,
		Log:            log,
		Stats:          NewStats(),
	}
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler, path, field, name string, data []byte, fields map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", session.CookieName)
	return nil
}

// signIn registers alice and returns her session cookie.
func signIn(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rec := postForm(t, h, "/signup", url.Values{
		"username":         {"alice"},
		"password":         {"Abcdef1@"},
		"confirm_password": {"Abcdef1@"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postForm(t, h, "/login", url.Values{"username": {"alice"}, "password": {"Abcdef1@"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?screen=home", rec.Header().Get("Location"))
	return sessionCookie(t, rec)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 20, 20))))
	return buf.Bytes()
}

func TestSignUpAndSignIn(t *testing.T) {
	app := newTestApp(t, ocr.StaticEngine{}, &fakeMarket{})
	h := Routes(app)

	rec := postForm(t, h, "/signup", url.Values{
		"username":         {"alice"},
		"password":         {"Abcdef1@"},
		"confirm_password": {"Abcdef1@"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign up successful! Please sign in.")
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	rec = postForm(t, h, "/login", url.Values{"username": {"alice"}, "password": {"Abcdef1@"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(t, rec)

	rec = get(t, h, "/", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, alice!")
	assert.Contains(t, rec.Body.String(), "<h1>BFSI OCR</h1>")

	assert.Equal(t, int64(1), app.Stats.SignUps.Load())
	assert.Equal(t, int64(1), app.Stats.SignIns.Load())
}

func TestSignUpErrors(t *testing.T) {
	app := newTestApp(t, ocr.StaticEngine{}, &fakeMarket{})
	h := Routes(app)
	signIn(t, h)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"empty", url.Values{"username": {""}, "password": {""}}, "cannot be empty"},
		{"duplicate", url.Values{"username": {"alice"}, "password": {"x"}, "confirm_password": {"y"}}, "Username already exists."},
		{"mismatch", url.Values{"username": {"bob"}, "password": {"Abcdef1@"}, "confirm_password": {"Abcdef1!"}}, "Passwords do not match."},
		{"weak", url.Values{"username": {"bob"}, "password": {"abcdefg1"}, "confirm_password": {"abcdefg1"}}, "Password must have at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, h, "/signup", tt.form)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Contains(t, rec.Body.String(), `action="/signup"`)
		})
	}
	assert.Equal(t, 1, app.Users.Len())
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	signIn(t, h)

	rec := postForm(t, h, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, session.CookieName, c.Name)
	}
}

func TestProtectedScreensRedirect(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	for _, path := range []string{"/?screen=student-loan", "/?screen=document-analysis", "/analysis?mode=unsupervised"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login?required=1", rec.Header().Get("Location"), path)
	}

	rec = postForm(t, h, "/loan/emi", url.Values{"principal": {"1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?required=1", rec.Header().Get("Location"))

	rec = get(t, h, "/login?required=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please sign in to continue.")
	assert.Contains(t, rec.Body.String(), `class="flash info"`)

	rec = get(t, h, "/login")
	assert.NotContains(t, rec.Body.String(), "Please sign in to continue.")
}

func TestLogout(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	cookie := signIn(t, h)

	rec := get(t, h, "/?screen=logout", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?logged_out=1", rec.Header().Get("Location"))

	cleared := sessionCookie(t, rec)
	rec = get(t, h, "/?screen=home", cleared)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = get(t, h, "/login?logged_out=1", cleared)
	assert.Contains(t, rec.Body.String(), "You have been logged out.")
}

func TestNavigationScreens(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	cookie := signIn(t, h)

	rec := get(t, h, "/?screen=document-analysis", cookie)
	assert.Contains(t, rec.Body.String(), `action="/analysis/supervised"`)

	rec = get(t, h, "/analysis?mode=semi-supervised", cookie)
	assert.Contains(t, rec.Body.String(), `action="/analysis/semi-supervised"`)

	rec = get(t, h, "/?screen=student-loan", cookie)
	assert.Contains(t, rec.Body.String(), `action="/loan/eligibility"`)
	assert.Contains(t, rec.Body.String(), "<math")

	rec = get(t, h, "/?screen=bogus", cookie)
	assert.Contains(t, rec.Body.String(), "<h1>BFSI OCR</h1>")

	rec = get(t, h, "/nope", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupervised(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{Text: "Loan loan LOAN! invoice"}, &fakeMarket{}))
	cookie := signIn(t, h)

	rec := upload(t, h, "/analysis/supervised", "document", "scan.png", pngBytes(t), map[string]string{"doc_type": "Invoice"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Extraction complete!")
	assert.Contains(t, body, "<h2>Invoice</h2>")
	assert.Contains(t, body, "<td>loan</td><td>3</td>")
	assert.Contains(t, body, "<td>invoice</td><td>1</td>")
	assert.Equal(t, 2, strings.Count(body, "data:image/png;base64,"))
}

func TestSupervisedErrors(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{Err: errors.New("engine down")}, &fakeMarket{}))
	cookie := signIn(t, h)

	rec := upload(t, h, "/analysis/supervised", "document", "notes.txt", []byte("plain text"), nil, cookie)
	assert.Contains(t, rec.Body.String(), "Could not read text from this file.")

	rec = upload(t, h, "/analysis/supervised", "document", "scan.png", pngBytes(t), nil, cookie)
	assert.Contains(t, rec.Body.String(), "Could not read text from this file.")

	rec = upload(t, h, "/analysis/supervised", "document", "", nil, nil, cookie)
	assert.Contains(t, rec.Body.String(), "Please enter a valid value for document.")

	rec = upload(t, h, "/analysis/supervised", "document", "big.png", make([]byte, 2<<20), nil, cookie)
	assert.Contains(t, rec.Body.String(), "file is larger than")
}

func TestSemiSupervised(t *testing.T) {
	day := time.Date(2024, 11, 14, 0, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		latest: &models.Quote{Symbol: "AAPL", Price: 1234.5, At: day.Add(15 * time.Hour)},
		bars: []models.PriceBar{
			{Date: day.AddDate(0, 0, -1), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1200000},
			{Date: day, Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 900},
		},
	}
	h := Routes(newTestApp(t, ocr.StaticEngine{}, market))
	cookie := signIn(t, h)

	rec := postForm(t, h, "/analysis/semi-supervised", url.Values{"stock": {"aapl"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Apple (AAPL)")
	assert.Contains(t, body, "1,234.50")
	assert.Contains(t, body, "<td>2024-11-14</td>")
	assert.Contains(t, body, "1,200,000")
	assert.Equal(t, 1, strings.Count(body, "data:image/png;base64,"))
	assert.NotContains(t, body, "Live data not available")
}

func TestSemiSupervisedPartialAndMissingData(t *testing.T) {
	day := time.Date(2024, 11, 14, 0, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		latestErr: errors.New("market closed"),
		bars:      []models.PriceBar{{Date: day, Close: 10}},
	}
	app := newTestApp(t, ocr.StaticEngine{}, market)
	h := Routes(app)
	cookie := signIn(t, h)

	rec := postForm(t, h, "/analysis/semi-supervised", url.Values{"stock": {"MSFT"}}, cookie)
	assert.Contains(t, rec.Body.String(), "Live data not available right now.")
	assert.Contains(t, rec.Body.String(), "<td>2024-11-14</td>")

	market.bars = nil
	rec = postForm(t, h, "/analysis/semi-supervised", url.Values{"stock": {"MSFT"}}, cookie)
	assert.Contains(t, rec.Body.String(), "Market data is not available right now.")

	rec = postForm(t, h, "/analysis/semi-supervised", url.Values{"stock": {"XXXX"}}, cookie)
	assert.Contains(t, rec.Body.String(), "Please enter a valid value for symbol.")
}

func TestUnsupervised(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	cookie := signIn(t, h)

	csv := "name,income,spend\na,1,1\nb,1.2,0.9\nc,0.8,1.1\nd,10,10\ne,10.5,9.8\nf,9.7,10.2\n"
	rec := upload(t, h, "/analysis/unsupervised", "dataset", "data.csv", []byte(csv), map[string]string{"clusters": "2"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Found 2 numeric columns for clustering.")
	assert.Contains(t, body, "<th>Cluster</th>")
	assert.Contains(t, body, "<td>f</td>")
	assert.Equal(t, 2, strings.Count(body, "data:image/png;base64,"))
}

func TestUnsupervisedErrors(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	cookie := signIn(t, h)

	rec := upload(t, h, "/analysis/unsupervised", "dataset", "data.csv", []byte("name,x\na,1\nb,2\n"), nil, cookie)
	assert.Contains(t, rec.Body.String(), "at least 2 numeric columns")

	rec = upload(t, h, "/analysis/unsupervised", "dataset", "data.csv", []byte("x,y\n1,2\n3,4\n"), map[string]string{"clusters": "11"}, cookie)
	assert.Contains(t, rec.Body.String(), "Please enter a valid value for k.")

	rec = upload(t, h, "/analysis/unsupervised", "dataset", "data.csv", []byte("x,y\n1,2\n3,4\n"), map[string]string{"clusters": "3"}, cookie)
	assert.Contains(t, rec.Body.String(), "exceeds the 2 row(s)")
}

func TestLoanEligibility(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	cookie := signIn(t, h)

	form := url.Values{
		"name":          {"Asha"},
		"age":           {"22"},
		"tenth_score":   {"85"},
		"twelfth_score": {"78"},
		"family_income": {"400000"},
		"category":      {"Postgraduate"},
		"loan_amount":   {"500000"},
	}
	rec := postForm(t, h, "/loan/eligibility", form, cookie)
	body := rec.Body.String()
	assert.Contains(t, body, "Congratulations Asha, you are eligible for an education loan!")
	assert.Contains(t, body, "<td>HDFC Bank</td>")
	assert.Contains(t, body, `value="Asha"`)

	form.Set("age", "36")
	rec = postForm(t, h, "/loan/eligibility", form, cookie)
	assert.Contains(t, rec.Body.String(), "Sorry Asha, you are not eligible")
	assert.NotContains(t, rec.Body.String(), "<td>HDFC Bank</td>")

	form.Set("age", "70")
	rec = postForm(t, h, "/loan/eligibility", form, cookie)
	assert.Contains(t, rec.Body.String(), "Please enter a valid value for age.")
}

func TestEMI(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	cookie := signIn(t, h)

	rec := postForm(t, h, "/loan/emi", url.Values{"principal": {"100000"}, "rate": {"10"}, "tenure": {"5"}}, cookie)
	body := rec.Body.String()
	assert.Contains(t, body, "2,124.70")
	assert.Contains(t, body, "127,482.27")
	assert.Contains(t, body, "<td>60</td>")

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"zero rate", url.Values{"principal": {"100000"}, "rate": {"0"}, "tenure": {"5"}}, "must all be positive"},
		{"rate too small to compound", url.Values{"principal": {"100000"}, "rate": {"1e-20"}, "tenure": {"5"}}, "no finite installment"},
		{"huge tenure", url.Values{"principal": {"100000"}, "rate": {"10"}, "tenure": {"100000"}}, "Please enter a valid value for tenure."},
		{"rate above bound", url.Values{"principal": {"100000"}, "rate": {"150"}, "tenure": {"5"}}, "Please enter a valid value for rate."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, h, "/loan/emi", tt.form, cookie)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotContains(t, rec.Body.String(), "Monthly EMI")
		})
	}
}

func TestHealthAndRequestID(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))
	get(t, h, "/login")

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"requests":1`)
}

func TestLogoAndMethods(t *testing.T) {
	h := Routes(newTestApp(t, ocr.StaticEngine{}, &fakeMarket{}))

	rec := get(t, h, "/static/logo.png")
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(rec.Body)
	assert.NoError(t, err)

	rec = get(t, h, "/loan/emi")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}
