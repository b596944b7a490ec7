package httpd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"aegis_admin/internal/auth"
	"aegis_admin/internal/registration"
	"aegis_admin/internal/repository"
	"aegis_admin/internal/table"
	"aegis_admin/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	payments *usecase.PaymentsUsecase
	session  *auth.Session
	reg      *registration.Validator
	validate *validator.Validate
	log      *slog.Logger
}

func NewHandler(payments *usecase.PaymentsUsecase, session *auth.Session, reg *registration.Validator, log *slog.Logger) *Handler {
	return &Handler{
		payments: payments,
		session:  session,
		reg:      reg,
		validate: validator.New(),
		log:      log,
	}
}

func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/api/v1/auth/login", h.Login)
	r.Post("/api/v1/auth/logout", h.Logout)
	r.Get("/api/v1/auth/session", h.Session)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(RequireAdmin(h.session))

		r.Get("/payments", h.ListPayments)
		r.Get("/payments/export", h.ExportPayments)
		r.Get("/payments/{id}", h.GetPayment)

		r.Get("/table", h.TableCurrent)
		r.Post("/table/sort/{column}", h.TableSort)
		r.Post("/table/page/{page}", h.TableGoto)
		r.Post("/table/next", h.TableNext)
		r.Post("/table/prev", h.TablePrev)
	})

	r.Post("/api/v1/registration/validate", h.ValidateRegistrationStep)
	r.Post("/api/v1/registration", h.Register)
	r.Get("/api/v1/healthz", h.Healthz)

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, auth.ErrMissingCredentials.Error())
		return
	}

	res := <-h.session.LoginAsync(r.Context(), req.Identifier, req.Secret)
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			h.log.Warn("login aborted", "error", res.Err)
			return
		}
		writeError(w, http.StatusInternalServerError, res.Err.Error())
		return
	}
	if !res.OK {
		h.log.Info("login failed", "identifier", req.Identifier)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	h.log.Info("login succeeded", "identifier", req.Identifier)
	writeJSON(w, http.StatusOK, h.session.State())
}

// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	h.payments.Browser().Reset()
	writeJSON(w, http.StatusOK, h.session.State())
}

// GET /api/v1/auth/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.State())
}

func parseSort(r *http.Request) (table.Column, table.Direction, error) {
	q := r.URL.Query()
	col, dir := table.ColCustomerName, table.Asc

	if v := q.Get("sort"); v != "" {
		c, err := table.ParseColumn(v)
		if err != nil {
			return "", "", err
		}
		col = c
	}
	if v := q.Get("dir"); v != "" {
		d, err := table.ParseDirection(v)
		if err != nil {
			return "", "", err
		}
		dir = d
	}
	return col, dir, nil
}

// GET /api/v1/admin/payments?sort=&dir=&page=
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	col, dir, err := parseSort(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}

	p := h.payments.Page(col, dir, page)
	writeJSON(w, http.StatusOK, toPageResp(table.State{Column: col, Direction: dir, Page: p.Page}, p))
}

// GET /api/v1/admin/payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toPaymentItem(*p))
}

// GET /api/v1/admin/payments/export?sort=&dir=
func (h *Handler) ExportPayments(w http.ResponseWriter, r *http.Request) {
	col, dir, err := parseSort(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.payments.Export(&buf, col, dir); err != nil {
		h.log.Error("export payments", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="payments.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) writeTable(w http.ResponseWriter, st table.State, p table.Page) {
	writeJSON(w, http.StatusOK, toPageResp(st, p))
}

// GET /api/v1/admin/table
func (h *Handler) TableCurrent(w http.ResponseWriter, r *http.Request) {
	st, p := h.payments.Browser().Current()
	h.writeTable(w, st, p)
}

// POST /api/v1/admin/table/sort/{column}
func (h *Handler) TableSort(w http.ResponseWriter, r *http.Request) {
	col, err := table.ParseColumn(chi.URLParam(r, "column"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, p := h.payments.Browser().Toggle(col)
	h.writeTable(w, st, p)
}

// POST /api/v1/admin/table/page/{page}
func (h *Handler) TableGoto(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	st, p := h.payments.Browser().Goto(n)
	h.writeTable(w, st, p)
}

// POST /api/v1/admin/table/next
func (h *Handler) TableNext(w http.ResponseWriter, r *http.Request) {
	st, p := h.payments.Browser().Next()
	h.writeTable(w, st, p)
}

// POST /api/v1/admin/table/prev
func (h *Handler) TablePrev(w http.ResponseWriter, r *http.Request) {
	st, p := h.payments.Browser().Prev()
	h.writeTable(w, st, p)
}

func (h *Handler) writeRegistrationErr(w http.ResponseWriter, err error) {
	var ve *registration.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResp{
			Step:  int(ve.Step),
			Title: ve.Step.String(),
			Error: ve.Message,
		})
		return
	}
	if errors.Is(err, registration.ErrUnknownStep) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// POST /api/v1/registration/validate?step=
func (h *Handler) ValidateRegistrationStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.URL.Query().Get("step"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid step")
		return
	}

	var form registration.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.reg.ValidateStep(form, registration.Step(step)); err != nil {
		h.writeRegistrationErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"step":  step,
		"valid": true,
		"last":  step == registration.StepCount-1,
	})
}

// POST /api/v1/registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var form registration.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	acc, err := h.reg.Submit(r.Context(), form)
	if err != nil {
		h.writeRegistrationErr(w, err)
		return
	}

	h.log.Info("registration accepted", "account_id", acc.ID, "children", acc.Children)
	writeJSON(w, http.StatusCreated, acc)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
