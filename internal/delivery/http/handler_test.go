package httpd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"aegis_admin/internal/auth"
	"aegis_admin/internal/domain"
	"aegis_admin/internal/mockdata"
	"aegis_admin/internal/registration"
	"aegis_admin/internal/repository"
	"aegis_admin/internal/usecase"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
)

type HandlerSuite struct {
	suite.Suite
	repo    *repository.SQLiteRepo
	session *auth.Session
	srv     *httptest.Server
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()

	repo, err := repository.NewSQLiteRepo("file:" + strings.ReplaceAll(s.T().Name(), "/", "_") + "?mode=memory&cache=shared")
	s.Require().NoError(err)
	s.repo = repo

	n := 0
	records := mockdata.NewGenerator(
		mockdata.WithRand(rand.New(rand.NewSource(5))),
		mockdata.WithClock(func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }),
		mockdata.WithIDs(func() string { n++; return "pay-" + strconv.Itoa(n) }),
	).Generate(mockdata.DefaultCount)
	s.Require().NoError(repo.Seed(ctx, records))

	payments, err := usecase.NewPaymentsUsecase(ctx, repo)
	s.Require().NoError(err)

	s.session = auth.NewSession(auth.StaticVerifier{Identifier: "admin", Secret: "Admin12345678@"})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(payments, s.session, registration.NewValidator(), log)
	s.srv = httptest.NewServer(h.Routes([]string{"http://localhost:8081"}))
}

func (s *HandlerSuite) TearDownTest() {
	s.srv.Close()
	s.repo.Close()
}

func (s *HandlerSuite) do(method, path string, body any) (*http.Response, []byte) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, rd)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, out
}

func (s *HandlerSuite) login() {
	resp, _ := s.do(http.MethodPost, "/api/v1/auth/login", LoginReq{Identifier: "admin", Secret: "Admin12345678@"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

func (s *HandlerSuite) page(path string) PageResp {
	resp, body := s.do(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var p PageResp
	s.Require().NoError(json.Unmarshal(body, &p))
	return p
}

func (s *HandlerSuite) TestLoginLogout() {
	resp, body := s.do(http.MethodPost, "/api/v1/auth/login", LoginReq{Identifier: "admin", Secret: "Admin12345678@"})
	s.Equal(http.StatusOK, resp.StatusCode)

	var snap auth.Snapshot
	s.Require().NoError(json.Unmarshal(body, &snap))
	s.Equal(auth.Snapshot{LoggedIn: true, Role: domain.RoleAdmin}, snap)

	resp, body = s.do(http.MethodPost, "/api/v1/auth/logout", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(body, &snap))
	s.Equal(auth.Snapshot{}, snap)
	s.False(s.session.IsAdmin())
}

func (s *HandlerSuite) TestLoginWrongSecret() {
	resp, body := s.do(http.MethodPost, "/api/v1/auth/login", LoginReq{Identifier: "admin", Secret: "nope"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Contains(string(body), auth.ErrInvalidCredentials.Error())
	s.False(s.session.IsAdmin())
}

func (s *HandlerSuite) TestLoginMissingField() {
	for _, req := range []LoginReq{{Identifier: "admin"}, {Secret: "Admin12345678@"}, {}} {
		resp, body := s.do(http.MethodPost, "/api/v1/auth/login", req)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Contains(string(body), auth.ErrMissingCredentials.Error())
	}
	s.False(s.session.IsAdmin())
}

func (s *HandlerSuite) TestAdminRoutesRequireLogin() {
	for _, path := range []string{"/api/v1/admin/payments", "/api/v1/admin/table", "/api/v1/admin/payments/export"} {
		resp, body := s.do(http.MethodGet, path, nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
		s.Contains(string(body), `"redirect":"/auth"`)
	}

	s.login()
	resp, _ := s.do(http.MethodGet, "/api/v1/admin/payments", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	s.do(http.MethodPost, "/api/v1/auth/logout", nil)
	resp, _ = s.do(http.MethodGet, "/api/v1/admin/payments", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlerSuite) TestListPaymentsPaging() {
	s.login()

	p := s.page("/api/v1/admin/payments")
	s.Equal(1, p.Page)
	s.Equal(3, p.PageCount)
	s.Equal(30, p.Total)
	s.Len(p.Items, 10)
	s.False(p.HasPrev)
	s.True(p.HasNext)

	p = s.page("/api/v1/admin/payments?page=4")
	s.Equal(3, p.Page)
	s.False(p.HasNext)

	p = s.page("/api/v1/admin/payments?page=0")
	s.Equal(1, p.Page)
}

func (s *HandlerSuite) TestListPaymentsByStatus() {
	s.login()

	last := -1
	for page := 1; page <= 3; page++ {
		p := s.page("/api/v1/admin/payments?sort=status&dir=asc&page=" + strconv.Itoa(page))
		for _, it := range p.Items {
			rank := domain.PaymentStatus(it.Status).Rank()
			s.GreaterOrEqual(rank, last)
			last = rank
		}
	}
}

func (s *HandlerSuite) TestListPaymentsBadSort() {
	s.login()

	resp, _ := s.do(http.MethodGet, "/api/v1/admin/payments?sort=email", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/admin/payments?dir=sideways", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestGetPayment() {
	s.login()

	resp, body := s.do(http.MethodGet, "/api/v1/admin/payments/pay-1", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var it PaymentItem
	s.Require().NoError(json.Unmarshal(body, &it))
	s.Equal("ORD-2024-001000", it.PayOSOrderCode)
	s.Equal(it.Status == string(domain.StatusPaid), it.PaymentDate != nil)

	resp, _ = s.do(http.MethodGet, "/api/v1/admin/payments/unknown", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestExport() {
	s.login()

	resp, body := s.do(http.MethodGet, "/api/v1/admin/payments/export?sort=amount&dir=desc", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(xlsxContentType, resp.Header.Get("Content-Type"))
	s.True(bytes.HasPrefix(body, []byte("PK")))
}

func (s *HandlerSuite) TestTableState() {
	s.login()

	p := s.page("/api/v1/admin/table")
	s.Equal("customerName", string(p.Sort))
	s.Equal("asc", string(p.Dir))

	resp, _ := s.do(http.MethodPost, "/api/v1/admin/table/next", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(2, s.page("/api/v1/admin/table").Page)

	resp, body := s.do(http.MethodPost, "/api/v1/admin/table/sort/customerName", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var got PageResp
	s.Require().NoError(json.Unmarshal(body, &got))
	s.Equal("desc", string(got.Dir))
	s.Equal(1, got.Page)

	_, body = s.do(http.MethodPost, "/api/v1/admin/table/sort/amount", nil)
	s.Require().NoError(json.Unmarshal(body, &got))
	s.Equal("amount", string(got.Sort))
	s.Equal("asc", string(got.Dir))

	_, body = s.do(http.MethodPost, "/api/v1/admin/table/page/9", nil)
	s.Require().NoError(json.Unmarshal(body, &got))
	s.Equal(3, got.Page)

	resp, _ = s.do(http.MethodPost, "/api/v1/admin/table/sort/bogus", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestRegistration() {
	form := registration.Form{
		ParentName:       "Le Quang C",
		Email:            "c@example.com",
		Phone:            "0900000000",
		BirthDate:        "1990-01-01",
		FamilySize:       "3",
		SelectedFeatures: []string{"location"},
		Password:         "longenough",
		ConfirmPassword:  "longenough",
	}

	resp, _ := s.do(http.MethodPost, "/api/v1/registration/validate?step=0", form)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.do(http.MethodPost, "/api/v1/registration", form)
	s.Equal(http.StatusCreated, resp.StatusCode, string(body))

	form.ConfirmPassword = "different1"
	resp, body = s.do(http.MethodPost, "/api/v1/registration", form)
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	var ve ValidationResp
	s.Require().NoError(json.Unmarshal(body, &ve))
	s.Equal(int(registration.StepPassword), ve.Step)

	resp, _ = s.do(http.MethodPost, "/api/v1/registration/validate?step=12", form)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestHealthz() {
	resp, _ := s.do(http.MethodGet, "/api/v1/healthz", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
