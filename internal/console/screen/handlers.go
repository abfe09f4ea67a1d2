package screen

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/middleware"
)

// Client events understood by the layout script.
const (
	eventCloseModal   = "closeModal"
	eventCloseConfirm = "closeConfirm"
)

const (
	msgExpired    = "The form has expired, please open it again"
	msgListFailed = "Failed to load data"
	msgBadEntry   = "Please check the input format"
	msgNoAccess   = "You do not have access to this feature"
	confirmPage   = "shared/confirm.html"
	modalTarget   = "#modal"
	confirmTarget = "#confirm"
	formSelector  = "#entity-form"
	defaultRowsOp = "filter"
	fieldNote     = "note"
)

// Register mounts the screen under g. deny answers requests that fail a gate.
func (s *Screen[T, D]) Register(g *gin.RouterGroup, deny access.DenyFunc) {
	need := func(privilege string) gin.HandlerFunc {
		return access.Require(s.env.Policy, access.Need(s.cfg.Resource, privilege), deny)
	}

	r := g.Group(s.cfg.Base)
	r.GET("", need(access.Read), s.page)
	r.GET("/rows", need(access.Read), s.rows)
	if !s.cfg.NoUpdate {
		r.GET("/:id/edit", need(access.Read), s.editForm)
	}
	r.POST("/:id/actions/:action", need(access.Read), s.action)
	r.POST("/form", need(access.Read), s.submit)
	r.POST("/form/options", need(access.Read), s.reloadOptions)
	r.POST("/form/close", need(access.Read), s.closeForm)
	r.POST("/form/arrays/:array", need(access.Read), s.putEntry)
	r.POST("/form/arrays/:array/:index/remove", need(access.Read), s.removeEntry)
	if !s.cfg.NoCreate {
		r.GET("/new", need(access.Create), s.newForm)
	}
}

// Deny is the DenyFunc of console pages: anonymous visitors go to the login
// page, operators without access get a toast (htmx) or the 403 page.
func Deny(c *gin.Context, err error) {
	if domain.IsUnauthorized(err) {
		if htmx.IsRequest(c) {
			htmx.Redirect(c, "/login")
			c.Status(http.StatusOK)
			return
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if htmx.IsRequest(c) {
		htmx.Notifier{}.Notify(c.Request.Context(), msgNoAccess, upsert.VariantError)
		c.Header(htmx.HeaderReswap, "none")
		c.Status(http.StatusOK)
		return
	}
	c.HTML(http.StatusForbidden, "errors/403.html", gin.H{})
}

// page renders the full screen.
// GET <base>
func (s *Screen[T, D]) page(c *gin.Context) {
	inst := s.instance(c)
	if inst.list.Snapshot().Status == listing.StatusIdle {
		inst.list.Refetch()
	}
	snap := s.settle(c, inst)
	c.HTML(http.StatusOK, s.template("page"), s.view(c, gin.H{"List": snap}))
}

// rows applies one list operation and renders the table.
// GET <base>/rows?op=filter|page|sort|limit|reset|refresh
func (s *Screen[T, D]) rows(c *gin.Context) {
	inst := s.instance(c)
	list := inst.list

	switch c.DefaultQuery("op", defaultRowsOp) {
	case "page":
		p, err := strconv.Atoi(c.Query("page"))
		if err != nil {
			c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
			return
		}
		list.SetPage(p)
	case "sort":
		by := c.Query("by")
		if !slices.Contains(s.cfg.Sortable, by) {
			c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
			return
		}
		list.HandleSort(by)
	case "limit":
		n, err := strconv.Atoi(c.Query("limit"))
		if err != nil || !s.pageSize(n) || list.SetLimit(n) != nil {
			c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
			return
		}
	case "reset":
		list.ResetFilters()
	case "refresh":
		list.Refetch()
	default:
		f := parseFilters(c, s.cfg.Filters)
		if !f.Equal(list.Filters()) {
			list.SetFilters(f)
		} else if list.Snapshot().Status == listing.StatusIdle {
			list.Refetch()
		}
	}

	s.renderTable(c, inst)
}

// pageSize reports whether n is one of the page sizes the screen offers.
func (s *Screen[T, D]) pageSize(n int) bool {
	return slices.Contains(listing.PageSizes, n) || (n == s.env.Limit && n > 0)
}

// newForm opens an empty form.
// GET <base>/new
func (s *Screen[T, D]) newForm(c *gin.Context) {
	inst := s.instance(c)
	if err := inst.form.Open(c.Request.Context(), 0); err != nil {
		s.noSwap(c)
		return
	}
	s.renderForm(c, inst, nil)
}

// editForm opens the form of an existing row.
// GET <base>/:id/edit
func (s *Screen[T, D]) editForm(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}
	inst := s.instance(c)
	if err := inst.form.Open(c.Request.Context(), id); err != nil {
		s.logger.Debug("open form failed", "id", id, "error", err)
		s.noSwap(c)
		return
	}
	s.renderForm(c, inst, nil)
}

// submit validates and saves the form.
// POST <base>/form
func (s *Screen[T, D]) submit(c *gin.Context) {
	inst := s.instance(c)
	st := inst.form.State()
	if st.Phase == upsert.PhaseClosed {
		s.expired(c)
		return
	}

	privilege := access.Create
	if st.Editing() {
		privilege = access.Update
	}
	principal, _ := access.CurrentPrincipal(c)
	if !s.env.Policy.Can(principal, s.cfg.Resource, privilege) {
		Deny(c, domain.ErrForbidden)
		return
	}

	d := st.Draft
	if err := s.cfg.Bind(c, &d); err != nil {
		s.logger.Debug("bind form failed", "error", err)
		s.renderForm(c, inst, gin.H{"Error": msgBadEntry})
		return
	}

	res, err := inst.form.Submit(c.Request.Context(), d)
	switch res {
	case upsert.Pending:
		s.renderConfirm(c, s.cfg.Base+"/form", modalTarget, "innerHTML", formSelector, false)
	case upsert.Submitted:
		s.renderMutated(c, inst)
	default:
		if errors.Is(err, upsert.ErrNotReady) {
			s.expired(c)
			return
		}
		s.renderForm(c, inst, nil)
	}
}

// reloadOptions syncs the scalar fields into the draft and reloads the
// dependent option lists, e.g. the provinces of a newly picked country.
// POST <base>/form/options
func (s *Screen[T, D]) reloadOptions(c *gin.Context) {
	inst := s.instance(c)
	d := inst.form.State().Draft
	_ = s.cfg.Bind(c, &d)
	if err := inst.form.ReloadOptions(c.Request.Context(), d); err != nil {
		s.expired(c)
		return
	}
	s.renderForm(c, inst, nil)
}

// closeForm discards the draft.
// POST <base>/form/close
func (s *Screen[T, D]) closeForm(c *gin.Context) {
	s.instance(c).form.Close()
	trigger(c, eventCloseModal)
	c.Status(http.StatusOK)
}

// putEntry adds or replaces an entry of a field array.
// POST <base>/form/arrays/:array
func (s *Screen[T, D]) putEntry(c *gin.Context) {
	arr, ok := s.array(c.Param("array"))
	if !ok {
		c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
		return
	}
	index := -1
	if v := c.PostForm("index"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			index = i
		}
	}

	inst := s.instance(c)
	var errs upsert.FieldErrors
	if err := inst.form.Edit(func(d *D) { errs = arr.Put(c, d, index) }); err != nil {
		s.expired(c)
		return
	}
	if errs != nil {
		s.renderForm(c, inst, gin.H{"EntryArray": arr.Name, "EntryIndex": index, "EntryErrors": errs})
		return
	}
	s.renderForm(c, inst, nil)
}

// removeEntry removes an entry of a field array once confirmed.
// POST <base>/form/arrays/:array/:index/remove
func (s *Screen[T, D]) removeEntry(c *gin.Context) {
	arr, ok := s.array(c.Param("array"))
	if !ok {
		c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}

	inst := s.instance(c)
	var res upsert.Result
	var rerr error
	if err := inst.form.Edit(func(d *D) {
		res, rerr = arr.Remove(c.Request.Context(), d, index, htmx.Confirmer{})
	}); err != nil {
		s.expired(c)
		return
	}
	if res == upsert.Pending {
		s.renderConfirm(c, c.Request.URL.Path, modalTarget, "innerHTML", "", false)
		return
	}
	if rerr != nil {
		s.logger.Debug("remove entry failed", "array", arr.Name, "index", index, "error", rerr)
	}
	s.renderForm(c, inst, nil)
}

// action runs a row action.
// POST <base>/:id/actions/:action
func (s *Screen[T, D]) action(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}
	idx := slices.IndexFunc(s.actions, func(a Action[T]) bool { return a.Name == c.Param("action") })
	if idx < 0 {
		c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
		return
	}
	a := s.actions[idx]

	principal, _ := access.CurrentPrincipal(c)
	if !s.env.Policy.Can(principal, s.cfg.Resource, a.Privilege) {
		Deny(c, domain.ErrForbidden)
		return
	}

	inst := s.instance(c)
	note := c.PostForm(fieldNote)
	res, _ := inst.form.Run(c.Request.Context(), upsert.Action{
		Name:     a.Name,
		ID:       id,
		Confirm:  a.Confirm,
		Success:  a.Success,
		Fallback: a.Fallback,
		Call: func(ctx context.Context) upsert.Outcome {
			return a.Run(ctx, id, note)
		},
	})

	switch res {
	case upsert.Pending:
		s.renderConfirm(c, c.Request.URL.Path, s.tableTarget(), "outerHTML", "", a.Note)
	case upsert.Submitted:
		s.renderMutated(c, inst)
	default:
		trigger(c, eventCloseConfirm)
		s.noSwap(c)
	}
}

// settle waits for the list to settle. On a cancelled request the current
// state is rendered as it is.
func (s *Screen[T, D]) settle(c *gin.Context, inst *instance[T, D]) listing.Snapshot[T] {
	snap, err := inst.list.Wait(c.Request.Context())
	if err != nil {
		s.logger.Debug("list did not settle", "error", err)
	}
	if snap.Status == listing.StatusError {
		htmx.Notifier{}.Notify(c.Request.Context(), listErrorMessage(snap.Err), upsert.VariantError)
	}
	return snap
}

func (s *Screen[T, D]) renderTable(c *gin.Context, inst *instance[T, D]) {
	snap := s.settle(c, inst)
	c.HTML(http.StatusOK, s.template("table"), s.view(c, gin.H{"List": snap}))
}

// renderMutated answers a successful mutation with the refreshed table.
func (s *Screen[T, D]) renderMutated(c *gin.Context, inst *instance[T, D]) {
	trigger(c, eventCloseConfirm)
	if !inst.form.Modal().IsActive() {
		trigger(c, eventCloseModal)
	}
	c.Header(htmx.HeaderRetarget, s.tableTarget())
	c.Header(htmx.HeaderReswap, "outerHTML")
	s.renderTable(c, inst)
}

func (s *Screen[T, D]) renderForm(c *gin.Context, inst *instance[T, D], extra gin.H) {
	trigger(c, eventCloseConfirm)
	data := gin.H{
		"Form":        inst.form.State(),
		"Error":       "",
		"EntryArray":  "",
		"EntryIndex":  -1,
		"EntryErrors": upsert.FieldErrors(nil),
	}
	for k, v := range extra {
		data[k] = v
	}
	c.Header(htmx.HeaderRetarget, modalTarget)
	c.Header(htmx.HeaderReswap, "innerHTML")
	c.HTML(http.StatusOK, s.template("form"), s.view(c, data))
}

// renderConfirm shows the pending confirmation. The dialog posts its answer
// back to url, re-sending the fields matched by include.
func (s *Screen[T, D]) renderConfirm(c *gin.Context, url, target, swap, include string, note bool) {
	var opts upsert.ConfirmOptions
	if ex := htmx.FromContext(c.Request.Context()); ex != nil {
		opts, _ = ex.Pending()
	}
	c.Header(htmx.HeaderRetarget, confirmTarget)
	c.Header(htmx.HeaderReswap, "innerHTML")
	c.HTML(http.StatusOK, confirmPage, gin.H{
		"Confirm":   opts,
		"URL":       url,
		"Target":    target,
		"Swap":      swap,
		"Include":   include,
		"Note":      note,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

func (s *Screen[T, D]) expired(c *gin.Context) {
	htmx.Notifier{}.Notify(c.Request.Context(), msgExpired, upsert.VariantError)
	trigger(c, eventCloseModal)
	s.noSwap(c)
}

func (s *Screen[T, D]) noSwap(c *gin.Context) {
	c.Header(htmx.HeaderReswap, "none")
	c.Status(http.StatusOK)
}

func (s *Screen[T, D]) array(name string) (FieldArray[D], bool) {
	for _, a := range s.cfg.Arrays {
		if a.Name == name {
			return a, true
		}
	}
	return FieldArray[D]{}, false
}

func (s *Screen[T, D]) template(name string) string {
	return s.cfg.Name + "/" + name + ".html"
}

func (s *Screen[T, D]) tableTarget() string {
	return "#" + s.cfg.Name + "-table"
}

// view assembles the template data shared by every fragment of the screen.
func (s *Screen[T, D]) view(c *gin.Context, data gin.H) gin.H {
	principal, _ := access.CurrentPrincipal(c)

	var actions []Action[T]
	for _, a := range s.actions {
		if s.env.Policy.Can(principal, s.cfg.Resource, a.Privilege) {
			actions = append(actions, a)
		}
	}

	h := gin.H{
		"Name":      s.cfg.Name,
		"Title":     s.cfg.Title,
		"Base":      s.cfg.Base,
		"Principal": principal,
		"CSRFToken": middleware.GetCSRFToken(c),
		"Filters":   s.cfg.Filters,
		"Sortable":  s.cfg.Sortable,
		"Actions":   actions,
		"CanCreate": !s.cfg.NoCreate && s.env.Policy.Can(principal, s.cfg.Resource, access.Create),
		"CanUpdate": !s.cfg.NoUpdate && s.env.Policy.Can(principal, s.cfg.Resource, access.Update),
		"Target":    s.tableTarget(),
	}
	if s.cfg.Extra != nil {
		for k, v := range s.cfg.Extra(c.Request.Context()) {
			h[k] = v
		}
	}
	for k, v := range data {
		h[k] = v
	}
	return h
}

func trigger(c *gin.Context, events ...string) {
	ex := htmx.FromContext(c.Request.Context())
	if ex == nil {
		return
	}
	for _, e := range events {
		ex.Trigger(e, true)
	}
}

func listErrorMessage(err error) string {
	var fe *fetch.Error
	if errors.As(err, &fe) && len(fe.Details) > 0 && fe.Details[0] != "" {
		return fe.Details[0]
	}
	return msgListFailed
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, errors.New("invalid id: " + s)
	}
	return uint(id), nil
}
