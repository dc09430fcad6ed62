package studio

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Rana718/roster/internal/database"
	"github.com/Rana718/roster/internal/datatable"
	"github.com/Rana718/roster/internal/export"
	"github.com/Rana718/roster/internal/models"
	"github.com/Rana718/roster/internal/studio/common"
)

type tab struct {
	Label  string
	URL    string
	Active bool
}

type pageLink struct {
	Label    string
	URL      string
	Current  bool
	Ellipsis bool
}

type tablePage struct {
	Title      string
	Role       models.Role
	Tabs       []tab
	Table      datatable.View
	Links      []pageLink
	PrevURL    string
	NextURL    string
	ExportURL  string
	DebounceMS int
}

func (s *Server) newTablePage(title, path string, query url.Values, view datatable.View, v viewer) tablePage {
	p := tablePage{
		Title:      title,
		Role:       v.Role,
		Table:      view,
		DebounceMS: s.opts.DebounceMS,
		Tabs: []tab{
			{Label: "Customers", URL: "/customers", Active: path == "/customers"},
			{Label: "Consultants", URL: "/consultants", Active: path == "/consultants"},
		},
	}

	w := view.Window
	for _, item := range w.Items {
		link := pageLink{Label: item.Label, Current: item.Current, Ellipsis: item.Kind == datatable.Ellipsis}
		if !link.Ellipsis {
			link.URL = datatable.PageURL(path, query, item.Page)
		}
		p.Links = append(p.Links, link)
	}
	if w.HasPrevious {
		p.PrevURL = datatable.PageURL(path, query, w.Previous())
	}
	if w.HasNext {
		p.NextURL = datatable.PageURL(path, query, w.Next())
	}

	// Export what is on screen: same filters, same page.
	exportQuery := url.Values{}
	for k, v := range query {
		exportQuery[k] = v
	}
	exportQuery.Set("format", "csv")
	p.ExportURL = datatable.PageURL("/export"+path, exportQuery, view.Page)
	return p
}

func requestQuery(c *fiber.Ctx) url.Values {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return q
}

// customerQuery reads the listing query. Consultants only ever see their
// own customers.
func customerQuery(c *fiber.Ctx, v viewer, pageSize int) (database.CustomerQuery, error) {
	q := database.CustomerQuery{
		Page:               c.QueryInt("page", 1),
		Limit:              c.QueryInt("limit", pageSize),
		Search:             c.Query("search"),
		InternalConsultant: c.Query("internalConsultant"),
	}
	if fields := c.Query("searchFields"); fields != "" {
		q.SearchFields = strings.Split(fields, ",")
	}
	if v.Role == models.RoleConsultant {
		if v.ConsultantID == "" {
			return q, fiber.NewError(fiber.StatusForbidden, "consultant id required")
		}
		q.InternalConsultant = v.ConsultantID
	}
	return q, nil
}

// handleCustomers renders customers a page at a time from the database.
// Requests for a page other than the canonical one are redirected to it.
func (s *Server) handleCustomers(c *fiber.Ctx) error {
	v := viewerOf(c)
	q, err := customerQuery(c, v, s.service.PageSize())
	if err != nil {
		return err
	}
	q.Limit = s.service.PageSize()

	page, err := s.service.ListCustomers(c.UserContext(), q)
	if err != nil {
		return err
	}

	query := requestQuery(c)
	if query.Get(datatable.QueryParamPage) != strconv.Itoa(page.Page) {
		return c.Redirect(datatable.PageURL(c.Path(), query, page.Page-1), fiber.StatusFound)
	}

	ctrl, err := datatable.New(page.Rows, customerColumns(v.Role), datatable.Options[models.Customer]{
		ServerSide:  true,
		TotalCount:  page.Total,
		CurrentPage: page.Page,
		Search:      q.Search,
		PageSize:    page.Limit,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	return c.Render("templates/table", s.newTablePage("Customers", c.Path(), query, ctrl.View(), v))
}

// handleConsultants pages and filters every consultant in memory, reading
// and rewriting the page and search in the request URL.
func (s *Server) handleConsultants(c *fiber.Ctx) error {
	all, err := s.service.Consultants(c.UserContext())
	if err != nil {
		return err
	}

	u, err := url.Parse(c.OriginalURL())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	loc := datatable.NewURLLocation(u)
	ctrl, err := datatable.New(all, consultantColumns(), datatable.Options[models.Consultant]{
		Location: loc,
		PageSize: s.service.PageSize(),
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if c.Query(datatable.QueryParamPage) != loc.Get(datatable.QueryParamPage) ||
		c.Query(datatable.QueryParamSearch) != loc.Get(datatable.QueryParamSearch) {
		return c.Redirect(loc.URL(), fiber.StatusFound)
	}

	return c.Render("templates/table", s.newTablePage("Consultants", c.Path(), u.Query(), ctrl.View(), viewerOf(c)))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.service.Ping(c.UserContext()); err != nil {
		return common.JSONError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	return common.JSONMessage(c, "ok")
}

// handleDashboard summarises a consultant's own customers, or the whole
// database for admins.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	v := viewerOf(c)
	var consultantID string
	switch v.Role {
	case models.RoleAdmin:
	case models.RoleConsultant:
		if v.ConsultantID == "" {
			return common.JSONError(c, fiber.StatusForbidden, "consultant id required")
		}
		consultantID = v.ConsultantID
	default:
		return common.JSONError(c, fiber.StatusForbidden, "dashboard needs the admin or consultant role")
	}

	d, err := s.service.Dashboard(c.UserContext(), consultantID)
	if err != nil {
		return common.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}
	return common.JSON(c, d)
}

func (s *Server) handleGetCustomers(c *fiber.Ctx) error {
	q, err := customerQuery(c, viewerOf(c), s.service.PageSize())
	if err != nil {
		return err
	}

	page, err := s.service.ListCustomers(c.UserContext(), q)
	if err != nil {
		return common.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}

	return common.JSON(c, common.TablePage{
		Rows:      page.Rows,
		Total:     page.Total,
		Page:      page.Page,
		Limit:     page.Limit,
		PageCount: page.PageCount(),
	})
}

func (s *Server) handleGetConsultants(c *fiber.Ctx) error {
	all, err := s.service.Consultants(c.UserContext())
	if err != nil {
		return common.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}

	ctrl, err := datatable.New(all, consultantColumns(), datatable.Options[models.Consultant]{
		Location: datatable.NewMemoryLocation(string(c.Request().URI().QueryString())),
		PageSize: c.QueryInt("limit", s.service.PageSize()),
	})
	if err != nil {
		return common.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}
	defer ctrl.Close()

	st := ctrl.State()
	return common.JSON(c, common.TablePage{
		Rows:      st.Rows,
		Total:     st.Total,
		Page:      st.Page + 1,
		Limit:     st.PageSize,
		PageCount: st.PageCount,
	})
}

func (s *Server) handleDeleteCustomer(c *fiber.Ctx) error {
	v := viewerOf(c)
	if !v.Role.CanManage() {
		return common.JSONError(c, fiber.StatusForbidden, "only admins may delete customers")
	}

	id := c.Params("id")
	if err := s.service.DeleteCustomer(c.UserContext(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return common.JSONError(c, fiber.StatusNotFound, err.Error())
		}
		return common.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}

	s.log.Info("customer deleted", zap.String("id", id), zap.String("role", string(v.Role)))
	return common.JSONMessage(c, "Customer deleted successfully")
}

// handleExport downloads the current page of a table, or every matching
// row with scope=all.
func (s *Server) handleExport(c *fiber.Ctx) error {
	table, err := models.ParseTable(c.Params("table"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	format, err := export.ParseFormat(c.Query("format", "csv"))
	if err != nil || format == export.SQLite {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unsupported format %q", c.Query("format")))
	}
	all := c.Query("scope") == "all"
	v := viewerOf(c)

	var buf bytes.Buffer
	switch table {
	case models.TableCustomers:
		q, err := customerQuery(c, v, s.service.PageSize())
		if err != nil {
			return err
		}
		q.Limit = s.service.PageSize()
		cols := customerColumns(v.Role)
		var rows []models.Customer
		if all {
			rows, err = s.service.MatchingCustomers(c.UserContext(), q)
		} else {
			var page database.CustomerPage
			page, err = s.service.ListCustomers(c.UserContext(), q)
			rows = page.Rows
		}
		if err != nil {
			return err
		}
		err = export.WriteView(&buf, format, cols, nil, rows)
		if err != nil {
			return err
		}

	case models.TableConsultants:
		consultants, err := s.service.Consultants(c.UserContext())
		if err != nil {
			return err
		}
		cols := consultantColumns()
		ctrl, err := datatable.New(consultants, cols, datatable.Options[models.Consultant]{
			Location: datatable.NewMemoryLocation(string(c.Request().URI().QueryString())),
			PageSize: s.service.PageSize(),
		})
		if err != nil {
			return err
		}
		defer ctrl.Close()

		rows := ctrl.State().Rows
		if all {
			rows = datatable.Filter(consultants, cols, datatable.DefaultField[models.Consultant], ctrl.State().Search)
		}
		if err := export.WriteView(&buf, format, cols, nil, rows); err != nil {
			return err
		}
	}

	c.Attachment(fmt.Sprintf("%s_%s.%s", table, s.opts.Now().Format("20060102_150405"), format))
	c.Set(fiber.HeaderContentType, export.ContentType(format))
	return c.Send(buf.Bytes())
}
