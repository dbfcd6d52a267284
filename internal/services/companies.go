package services

import (
	"context"
	"strings"

	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"gorm.io/gorm"
)

// CompanyService keeps company membership consistent with project management
// and defect ownership.
type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(conn *gorm.DB) *CompanyService {
	return &CompanyService{db: conn}
}

func (s *CompanyService) Create(ctx context.Context, actor types.Actor, name string) (*models.Company, error) {
	if err := Authorize(actor, types.RoleAdmin); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, conflict("Company name is required")
	}

	company := models.Company{Name: name}

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		return storeErr("Failed to create company", tx.Create(&company).Error)
	})
	if err != nil {
		return nil, err
	}

	return &company, nil
}

// Delete removes the company together with its projects and their defects.
// Affiliated users survive with their company reference cleared.
func (s *CompanyService) Delete(ctx context.Context, actor types.Actor, companyID uint) error {
	if err := Authorize(actor, types.RoleAdmin); err != nil {
		return err
	}

	return inTx(ctx, s.db, func(tx *gorm.DB) error {
		var company models.Company
		if err := first(tx, &company, "Company not found", "id = ?", companyID); err != nil {
			return err
		}

		var projectIDs []uint
		if err := tx.Model(&models.Project{}).Where("company_id = ?", companyID).Pluck("id", &projectIDs).Error; err != nil {
			return storeErr("Failed to load company projects", err)
		}

		if err := deleteProjects(tx, projectIDs); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("company_id = ?", companyID).Update("company_id", nil).Error; err != nil {
			return storeErr("Failed to detach company users", err)
		}

		return storeErr("Failed to delete company", tx.Delete(&company).Error)
	})
}

// deleteProjects removes projects with their defects and roster rows.
func deleteProjects(tx *gorm.DB, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}

	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Defect{}).Error; err != nil {
		return storeErr("Failed to delete defects", err)
	}

	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectEngineer{}).Error; err != nil {
		return storeErr("Failed to delete project rosters", err)
	}

	return storeErr("Failed to delete projects", tx.Where("id IN ?", projectIDs).Delete(&models.Project{}).Error)
}

func (s *CompanyService) AddUser(ctx context.Context, actor types.Actor, companyID, userID uint) (*types.MembershipResult, error) {
	if err := Authorize(actor, types.RoleAdmin); err != nil {
		return nil, err
	}

	var result *types.MembershipResult

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var company models.Company
		if err := first(tx, &company, "Company not found", "id = ?", companyID); err != nil {
			return err
		}

		var user models.User
		if err := first(tx, &user, "User not found", "id = ?", userID); err != nil {
			return err
		}

		if user.CompanyID != nil {
			if *user.CompanyID == companyID {
				return conflict("User is already a member of this company")
			}

			var current models.Company
			if err := first(tx, &current, "Company not found", "id = ?", *user.CompanyID); err != nil {
				if IsNotFound(err) {
					return conflict("User already belongs to another company (id %d)", *user.CompanyID)
				}
				return err
			}
			return conflict("User already belongs to company %q (id %d)", current.Name, current.ID)
		}

		if err := tx.Model(&user).Update("company_id", companyID).Error; err != nil {
			return storeErr("Failed to add user to company", err)
		}

		result = &types.MembershipResult{
			UserID:    user.ID,
			CompanyID: companyID,
			Role:      user.Role,
			Message:   "User successfully added to company " + company.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RemoveUser detaches a user from a company. Managers must have no projects
// and engineers no defects left in the company.
func (s *CompanyService) RemoveUser(ctx context.Context, actor types.Actor, companyID, userID uint) (*types.MembershipResult, error) {
	if err := Authorize(actor, types.RoleAdmin); err != nil {
		return nil, err
	}

	var result *types.MembershipResult

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var company models.Company
		if err := first(tx, &company, "Company not found", "id = ?", companyID); err != nil {
			return err
		}

		var user models.User
		if err := first(tx, &user, "User not found", "id = ?", userID); err != nil {
			return err
		}

		if user.CompanyID == nil || *user.CompanyID != companyID {
			return conflict("User is not a member of the specified company")
		}

		switch user.Role {
		case types.RoleManager:
			var managed int64
			if err := tx.Model(&models.Project{}).
				Where("manager_id = ? AND company_id = ?", user.ID, companyID).
				Count(&managed).Error; err != nil {
				return storeErr("Failed to count managed projects", err)
			}
			if managed > 0 {
				return conflict("Manager still manages %d project(s) in this company, reassign projects first", managed)
			}
		case types.RoleEngineer:
			var active int64
			if err := tx.Model(&models.Defect{}).
				Joins("JOIN projects ON projects.id = defects.project_id").
				Where("defects.engineer_id = ? AND projects.company_id = ?", user.ID, companyID).
				Count(&active).Error; err != nil {
				return storeErr("Failed to count assigned defects", err)
			}
			if active > 0 {
				return conflict("Engineer has %d active defects in this company, reassign defects first", active)
			}
		}

		var projectIDs []uint
		if err := tx.Model(&models.Project{}).Where("company_id = ?", companyID).Pluck("id", &projectIDs).Error; err != nil {
			return storeErr("Failed to load company projects", err)
		}

		if len(projectIDs) > 0 {
			if err := tx.Where("user_id = ? AND project_id IN ?", user.ID, projectIDs).Delete(&models.ProjectEngineer{}).Error; err != nil {
				return storeErr("Failed to remove user from project rosters", err)
			}
		}

		if err := tx.Model(&user).Update("company_id", nil).Error; err != nil {
			return storeErr("Failed to detach user from company", err)
		}

		result = &types.MembershipResult{
			UserID:    user.ID,
			CompanyID: companyID,
			Role:      user.Role,
			Message:   "User successfully detached from company " + company.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// List counts projects and users per company on every call.
func (s *CompanyService) List(ctx context.Context) ([]types.CompanyListEntry, error) {
	var entries []types.CompanyListEntry

	err := s.db.WithContext(ctx).
		Model(&models.Company{}).
		Select("companies.id, companies.name, " +
			"(SELECT COUNT(*) FROM projects WHERE projects.company_id = companies.id) AS projects_count, " +
			"(SELECT COUNT(*) FROM users WHERE users.company_id = companies.id) AS users_count").
		Order("companies.id").
		Scan(&entries).Error
	if err != nil {
		return nil, unexpected("Failed to list companies", err)
	}

	if entries == nil {
		entries = []types.CompanyListEntry{}
	}

	return entries, nil
}

// Detail assembles the managers, engineers and projects of a company. Only
// members of the company and admins may read it.
func (s *CompanyService) Detail(ctx context.Context, actor types.Actor, companyID uint) (*types.CompanyDetail, error) {
	tx := s.db.WithContext(ctx)

	var company models.Company
	if err := first(tx, &company, "Company not found", "id = ?", companyID); err != nil {
		return nil, err
	}

	if actor.Role != types.RoleAdmin && !actor.InCompany(companyID) {
		return nil, forbidden("Not enough permissions to view this company")
	}

	var members []models.User
	if err := tx.Where("company_id = ?", companyID).Order("id").Find(&members).Error; err != nil {
		return nil, unexpected("Failed to load company users", err)
	}

	var projects []models.Project
	if err := tx.Where("company_id = ?", companyID).Order("id").Find(&projects).Error; err != nil {
		return nil, unexpected("Failed to load company projects", err)
	}

	projectIDs := make([]uint, len(projects))
	for i, project := range projects {
		projectIDs[i] = project.ID
	}

	var defects []models.Defect
	var roster []models.ProjectEngineer
	if len(projectIDs) > 0 {
		if err := tx.Where("project_id IN ?", projectIDs).Order("id").Find(&defects).Error; err != nil {
			return nil, unexpected("Failed to load company defects", err)
		}
		if err := tx.Where("project_id IN ?", projectIDs).Order("project_id, user_id").Find(&roster).Error; err != nil {
			return nil, unexpected("Failed to load project rosters", err)
		}
	}

	users := make(map[uint]models.User, len(members))
	for _, member := range members {
		users[member.ID] = member
	}

	// Managers and roster entries normally belong to the company, but load any
	// stragglers so the view never drops a reference.
	var missing []uint
	for _, project := range projects {
		if project.ManagerID != nil {
			if _, ok := users[*project.ManagerID]; !ok {
				missing = append(missing, *project.ManagerID)
			}
		}
	}
	for _, entry := range roster {
		if _, ok := users[entry.UserID]; !ok {
			missing = append(missing, entry.UserID)
		}
	}
	if len(missing) > 0 {
		var extra []models.User
		if err := tx.Where("id IN ?", uniqueIDs(missing)).Find(&extra).Error; err != nil {
			return nil, unexpected("Failed to load referenced users", err)
		}
		for _, user := range extra {
			users[user.ID] = user
		}
	}

	detail := &types.CompanyDetail{
		ID:        company.ID,
		Name:      company.Name,
		Projects:  []types.ProjectDetail{},
		Managers:  []types.ManagerDetail{},
		Engineers: []types.EngineerDetail{},
	}

	for _, member := range members {
		switch member.Role {
		case types.RoleManager:
			managed := []string{}
			for _, project := range projects {
				if project.ManagerID != nil && *project.ManagerID == member.ID {
					managed = append(managed, project.Name)
				}
			}
			detail.Managers = append(detail.Managers, types.ManagerDetail{
				ID:       member.ID,
				Username: member.Username,
				Email:    member.Email,
				Projects: managed,
			})
		case types.RoleEngineer:
			detail.Engineers = append(detail.Engineers, engineerDetail(member, defects, 0))
		}
	}

	for _, project := range projects {
		entry := types.ProjectDetail{
			ID:        project.ID,
			Name:      project.Name,
			ManagerID: project.ManagerID,
			Engineers: []types.EngineerDetail{},
			Defects:   []types.DefectResponse{},
		}

		if project.ManagerID != nil {
			if manager, ok := users[*project.ManagerID]; ok {
				entry.Manager = &types.ManagerSummary{ID: manager.ID, Username: manager.Username, Email: manager.Email}
			}
		}

		for _, row := range roster {
			if row.ProjectID != project.ID {
				continue
			}
			if engineer, ok := users[row.UserID]; ok {
				entry.Engineers = append(entry.Engineers, engineerDetail(engineer, defects, project.ID))
			}
		}

		for _, defect := range defects {
			if defect.ProjectID == project.ID {
				entry.Defects = append(entry.Defects, defect.Response())
			}
		}

		detail.Projects = append(detail.Projects, entry)
	}

	return detail, nil
}

// engineerDetail lists the engineer's defects, restricted to projectID when it
// is non-zero.
func engineerDetail(engineer models.User, defects []models.Defect, projectID uint) types.EngineerDetail {
	own := []types.EngineerDefect{}
	for _, defect := range defects {
		if defect.EngineerID == nil || *defect.EngineerID != engineer.ID {
			continue
		}
		if projectID != 0 && defect.ProjectID != projectID {
			continue
		}
		own = append(own, types.EngineerDefect{ID: defect.ID, Name: defect.Name, ProjectID: defect.ProjectID})
	}

	return types.EngineerDetail{
		ID:       engineer.ID,
		Username: engineer.Username,
		Email:    engineer.Email,
		Defects:  own,
	}
}
