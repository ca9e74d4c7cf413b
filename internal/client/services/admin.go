package services

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/models"
	"github.com/cre8tlystudio/adminctl/internal/logging"
)

const (
	statsPath       = "/admin/stats"
	usersPath       = "/admin/users"
	referralPath    = "/admin/users/create-referral"
	reportsPath     = "/admin/reports"
	maintenancePath = "/admin/settings/maintenance"
	deliveriesPath  = "/admin/deliveries/admin-deliveries"
	employeesPath   = "/admin/referral/employees"
	referralsPath   = "/admin/referral/referrals"
)

// AdminPageSize is the page length of the deliveries and referrals lists.
const AdminPageSize = 20

// AdminService covers the dashboard, users, referrals, reports and the
// maintenance flag.
type AdminService interface {
	Stats(ctx context.Context) (models.Stats, error)
	// Users returns all users, newest first.
	Users(ctx context.Context) ([]models.User, error)
	// CreateReferral returns the referral link for an employee. An empty
	// slug lets the backend choose one.
	CreateReferral(ctx context.Context, employeeID models.ID, slug string) (string, error)
	Reports(ctx context.Context) ([]models.Report, error)
	// Deliveries returns a 1-based page of product deliveries.
	Deliveries(ctx context.Context, page int) (models.DeliveryPage, error)
	ReferralEmployees(ctx context.Context) ([]models.Employee, error)
	// Referrals returns a 1-based page of employee referrals, limited to
	// one employee unless employeeID is zero.
	Referrals(ctx context.Context, page int, employeeID models.ID) (models.ReferralPage, error)
	// MaintenanceStatus reports the maintenance flag or the error that
	// prevented reading it.
	MaintenanceStatus(ctx context.Context) (bool, error)
	// Maintenance is MaintenanceStatus with any error read as false.
	Maintenance(ctx context.Context) bool
}

type adminService struct {
	client client.Client
	logger logging.Logger
}

func NewAdminService(c client.Client, l logging.Logger) AdminService {
	return &adminService{client: c, logger: l}
}

func (s *adminService) Stats(ctx context.Context) (models.Stats, error) {
	var resp struct {
		Stats models.Stats `json:"stats"`
	}
	if err := s.client.GetJSON(ctx, statsPath, nil, &resp); err != nil {
		return models.Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return resp.Stats, nil
}

func (s *adminService) Users(ctx context.Context) ([]models.User, error) {
	var resp struct {
		Users []models.User `json:"users"`
	}
	if err := s.client.GetJSON(ctx, usersPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	users := slices.Clone(resp.Users)
	slices.SortStableFunc(users, func(a, b models.User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return users, nil
}

func (s *adminService) CreateReferral(ctx context.Context, employeeID models.ID, slug string) (string, error) {
	var resp struct {
		Link string `json:"link"`
	}
	req := models.CreateReferralRequest{EmployeeID: employeeID, Slug: slug}
	if err := s.client.PostJSON(ctx, referralPath, req, &resp); err != nil {
		return "", fmt.Errorf("create referral: %w", err)
	}
	return resp.Link, nil
}

func (s *adminService) Reports(ctx context.Context) ([]models.Report, error) {
	var resp struct {
		Reports []models.Report `json:"reports"`
	}
	if err := s.client.GetJSON(ctx, reportsPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("get reports: %w", err)
	}
	return resp.Reports, nil
}

func pageQuery(page int) (int, url.Values) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(AdminPageSize))
	return page, query
}

func (s *adminService) Deliveries(ctx context.Context, page int) (models.DeliveryPage, error) {
	page, query := pageQuery(page)
	var resp struct {
		Deliveries []models.Delivery `json:"deliveries"`
		Pagination struct {
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := s.client.GetJSON(ctx, deliveriesPath, query, &resp); err != nil {
		return models.DeliveryPage{}, fmt.Errorf("get deliveries: %w", err)
	}

	total := max(resp.Pagination.TotalPages, page)
	return models.DeliveryPage{Deliveries: resp.Deliveries, Page: page, TotalPages: total}, nil
}

func (s *adminService) ReferralEmployees(ctx context.Context) ([]models.Employee, error) {
	var resp struct {
		Employees []models.Employee `json:"employees"`
	}
	if err := s.client.GetJSON(ctx, employeesPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("get referral employees: %w", err)
	}
	return resp.Employees, nil
}

func (s *adminService) Referrals(ctx context.Context, page int, employeeID models.ID) (models.ReferralPage, error) {
	page, query := pageQuery(page)
	if !employeeID.IsZero() {
		query.Set("employeeId", employeeID.String())
	}
	var resp struct {
		Referrals  []models.EmployeeReferral `json:"referrals"`
		TotalPages int                       `json:"totalPages"`
	}
	if err := s.client.GetJSON(ctx, referralsPath, query, &resp); err != nil {
		return models.ReferralPage{}, fmt.Errorf("get referrals: %w", err)
	}

	for i := range resp.Referrals {
		if resp.Referrals[i].EmployeeName == "" {
			resp.Referrals[i].EmployeeName = "Unknown"
		}
	}
	total := max(resp.TotalPages, 1)
	return models.ReferralPage{Referrals: resp.Referrals, Page: page, TotalPages: total}, nil
}

func (s *adminService) MaintenanceStatus(ctx context.Context) (bool, error) {
	var resp struct {
		Maintenance bool `json:"maintenance"`
	}
	if err := s.client.GetJSON(ctx, maintenancePath, nil, &resp); err != nil {
		return false, err
	}
	return resp.Maintenance, nil
}

func (s *adminService) Maintenance(ctx context.Context) bool {
	on, err := s.MaintenanceStatus(ctx)
	if err != nil {
		s.logger.Warn(ctx, "maintenance check failed", "error", err)
		return false
	}
	return on
}
