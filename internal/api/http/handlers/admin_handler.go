package handlers

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// AdminUsersPath lists every account and hosts the new agency form.
const AdminUsersPath = "/admin/users"

// AdminHandler serves the admin dashboard and moderation lists.
type AdminHandler struct {
	views     *Views
	reports   *service.ReportService
	favorites *service.FavoriteService
	reviews   *service.ReviewService
	admin     *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(views *Views, reports *service.ReportService, favorites *service.FavoriteService, reviews *service.ReviewService, admin *service.AdminService) *AdminHandler {
	return &AdminHandler{views: views, reports: reports, favorites: favorites, reviews: reviews, admin: admin}
}

// ReportTable is a report flattened for the template.
type ReportTable struct {
	Title   string
	Columns []string
	Rows    [][]string
	Error   string
}

var reportTitles = map[domain.ReportKind]string{
	domain.ReportTopSoldCars:  "Top sold cars",
	domain.ReportTopBuyers:    "Top buyers",
	domain.ReportTopFavorites: "Top favorites",
	domain.ReportTopAgencies:  "Top agencies",
}

// Reports renders the four dashboard reports.
func (h *AdminHandler) Reports(c *fiber.Ctx) error {
	var query dto.ReportQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "Reports", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "admin_reports", data)
	}

	sections, err := h.reports.Dashboard(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	tables := make([]ReportTable, 0, len(sections))
	for _, section := range sections {
		tables = append(tables, reportTable(section))
	}
	data["reports"] = tables
	return h.views.Render(c, fiber.StatusOK, "admin_reports", data)
}

func reportTable(section service.ReportSection) ReportTable {
	table := ReportTable{Title: reportTitles[section.Kind]}
	if section.Err != nil {
		table.Error = apperrors.ToDomainError(section.Err).Message
		return table
	}
	seen := map[string]struct{}{}
	for _, row := range section.Rows {
		for column := range row {
			if _, ok := seen[column]; !ok {
				seen[column] = struct{}{}
				table.Columns = append(table.Columns, column)
			}
		}
	}
	sort.Strings(table.Columns)
	for _, row := range section.Rows {
		cells := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			if value, ok := row[column]; ok && value != nil {
				cells[i] = formatCell(value)
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	headers := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		headers[i] = strings.ReplaceAll(column, "_", " ")
	}
	table.Columns = headers
	return table
}

func formatCell(value any) string {
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

// Favorites lists every buyer favorite.
func (h *AdminHandler) Favorites(c *fiber.Ctx) error {
	var query dto.AdminFavoritesQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "All favorites", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "admin_favorites", data)
	}
	page, err := h.favorites.AdminList(c.UserContext(), query.Query, repository.PageQuery{Page: query.Page})
	if err != nil {
		return err
	}
	data["favorites"] = page.Items
	data["total"] = page.Total
	return h.views.Render(c, fiber.StatusOK, "admin_favorites", data)
}

// Reviews lists every review with rating and date filters.
func (h *AdminHandler) Reviews(c *fiber.Ctx) error {
	var query dto.AdminReviewsQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "All reviews", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "admin_reviews", data)
	}
	page, err := h.reviews.AdminList(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	data["reviews"] = page.Items
	data["total"] = page.Total
	return h.views.Render(c, fiber.StatusOK, "admin_reviews", data)
}

// Purchases lists every purchase with text, status and date filters.
func (h *AdminHandler) Purchases(c *fiber.Ctx) error {
	var query dto.AdminPurchasesQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "Purchases", "query": query, "statuses": dto.PurchaseStatuses}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "admin_purchases", data)
	}
	page, err := h.admin.Purchases(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	data["purchases"] = page.Items
	data["total"] = page.Total
	if page.HasNext() {
		data["next_page"] = page.Page + 1
		data["next_query"] = pageQuery(c, page.Page+1)
	}
	if page.Page > 1 {
		data["prev_page"] = page.Page - 1
		data["prev_query"] = pageQuery(c, page.Page-1)
	}
	return h.views.Render(c, fiber.StatusOK, "admin_purchases", data)
}

// Users lists accounts by email and role.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	var query dto.AdminUsersQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	roles := []string{"all", string(domain.RoleBuyer), string(domain.RoleAgency), string(domain.RoleAdmin)}
	data := fiber.Map{"title": "Users", "query": query, "roles": roles}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "admin_users", data)
	}
	page, err := h.admin.Users(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	data["users"] = page.Items
	data["total"] = page.Total
	return h.views.Render(c, fiber.StatusOK, "admin_users", data)
}

// CreateAgency opens an agency with its first account.
func (h *AdminHandler) CreateAgency(c *fiber.Ctx) error {
	var form dto.AgencyForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		return formRejected(c, err, AdminUsersPath)
	}
	agency, err := h.admin.CreateAgency(c.UserContext(), form.Account())
	if err != nil {
		return mutationFailed(c, err, AdminUsersPath)
	}
	name := agency.Name
	if name == "" {
		name = form.AgencyName
	}
	setFlash(c, "success", "Agency "+name+" created.")
	return c.Redirect(AdminUsersPath, fiber.StatusSeeOther)
}

// pageQuery is the current query string with page replaced.
func pageQuery(c *fiber.Ctx, page int) string {
	q := url.Values{}
	for key, value := range c.Queries() {
		q.Set(key, value)
	}
	q.Set("page", strconv.Itoa(page))
	return q.Encode()
}
