package services

import (
	"context"
	"strings"

	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(conn *gorm.DB) *ProjectService {
	return &ProjectService{db: conn}
}

type CreateProjectInput struct {
	Name        string
	CompanyID   uint
	EngineerIDs []uint
}

// Create makes the calling manager the project's manager. Engineer ids that
// are not engineers of the manager's company are skipped without error.
func (s *ProjectService) Create(ctx context.Context, actor types.Actor, in CreateProjectInput) (*types.ProjectResponse, error) {
	if err := Authorize(actor, types.RoleManager); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, conflict("Project name is required")
	}

	var response *types.ProjectResponse

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var company models.Company
		if err := first(tx, &company, "Company not found", "id = ?", in.CompanyID); err != nil {
			return err
		}

		if !actor.InCompany(company.ID) {
			return notFound("Company not found")
		}

		managerID := actor.ID
		project := models.Project{
			Name:      name,
			CompanyID: company.ID,
			ManagerID: &managerID,
		}

		if err := tx.Create(&project).Error; err != nil {
			return storeErr("Failed to create project", err)
		}

		engineers := []models.User{}
		if ids := uniqueIDs(in.EngineerIDs); len(ids) > 0 {
			if err := tx.Where("id IN ? AND role = ? AND company_id = ?", ids, types.RoleEngineer, company.ID).
				Order("id").Find(&engineers).Error; err != nil {
				return storeErr("Failed to load engineers", err)
			}
		}

		if len(engineers) > 0 {
			rows := make([]models.ProjectEngineer, len(engineers))
			for i, engineer := range engineers {
				rows[i] = models.ProjectEngineer{ProjectID: project.ID, UserID: engineer.ID}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return storeErr("Failed to assign engineers", err)
			}
		}

		response = &types.ProjectResponse{
			ID:        project.ID,
			Name:      project.Name,
			CompanyID: project.CompanyID,
			ManagerID: project.ManagerID,
			Engineers: summaries(engineers),
			Defects:   []types.DefectResponse{},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// Delete removes a project the caller manages, along with its defects.
// Projects managed by someone else are reported as not found.
func (s *ProjectService) Delete(ctx context.Context, actor types.Actor, projectID uint) error {
	if err := Authorize(actor, types.RoleManager); err != nil {
		return err
	}

	return inTx(ctx, s.db, func(tx *gorm.DB) error {
		var project models.Project
		if err := first(tx, &project, "Project not found", "id = ? AND manager_id = ?", projectID, actor.ID); err != nil {
			return err
		}

		return deleteProjects(tx, []uint{project.ID})
	})
}

func (s *ProjectService) AssignManager(ctx context.Context, actor types.Actor, projectID, managerID uint) (*types.ManagerAssignment, error) {
	if err := Authorize(actor, types.RoleAdmin, types.RoleManager); err != nil {
		return nil, err
	}

	var result *types.ManagerAssignment

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var project models.Project
		if err := first(tx, &project, "Project not found", "id = ?", projectID); err != nil {
			return err
		}

		var manager models.User
		if err := first(tx, &manager, "Manager not found", "id = ? AND role = ?", managerID, types.RoleManager); err != nil {
			return err
		}

		if actor.Role == types.RoleManager {
			if project.ManagerID != nil && *project.ManagerID != actor.ID {
				return forbidden("Project is managed by another manager")
			}
			if !actor.InCompany(project.CompanyID) {
				return forbidden("Project belongs to another company")
			}
		}

		if manager.CompanyID == nil || *manager.CompanyID != project.CompanyID {
			return conflict("Manager and project belong to different companies")
		}

		if project.ManagerID != nil && *project.ManagerID == manager.ID {
			return conflict("Manager is already assigned to this project")
		}

		previous := cloneID(project.ManagerID)

		if err := tx.Model(&project).Update("manager_id", manager.ID).Error; err != nil {
			return storeErr("Failed to assign manager", err)
		}

		message := "Manager successfully assigned to the project"
		if previous != nil {
			message = "Project manager successfully changed"
		}

		result = &types.ManagerAssignment{
			ProjectID:         project.ID,
			ManagerID:         manager.ID,
			PreviousManagerID: previous,
			Message:           message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ProjectService) RemoveManager(ctx context.Context, actor types.Actor, projectID uint) (*types.ManagerRemoval, error) {
	if err := Authorize(actor, types.RoleAdmin, types.RoleManager); err != nil {
		return nil, err
	}

	var result *types.ManagerRemoval

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var project models.Project
		if err := first(tx, &project, "Project not found", "id = ?", projectID); err != nil {
			return err
		}

		if project.ManagerID == nil {
			return conflict("Project has no assigned manager")
		}

		if actor.Role == types.RoleManager && !isManagerOf(actor, project.ManagerID) {
			return forbidden("Only the project's manager can step down")
		}

		previous := *project.ManagerID

		if err := tx.Model(&project).Update("manager_id", nil).Error; err != nil {
			return storeErr("Failed to remove manager", err)
		}

		result = &types.ManagerRemoval{
			ProjectID:         project.ID,
			PreviousManagerID: previous,
			Message:           "Manager successfully removed from the project",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// loadManagedProject loads a project for roster changes. Admins may touch
// any project; managers only their own.
func loadManagedProject(tx *gorm.DB, actor types.Actor, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := first(tx, &project, "Project not found", "id = ?", projectID); err != nil {
		return nil, err
	}

	if actor.Role == types.RoleManager && !isManagerOf(actor, project.ManagerID) {
		return nil, forbidden("You can only manage engineers on your own projects")
	}

	return &project, nil
}

func rosterIDs(tx *gorm.DB, projectID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := tx.Model(&models.ProjectEngineer{}).Where("project_id = ?", projectID).Pluck("user_id", &ids).Error; err != nil {
		return nil, storeErr("Failed to load project roster", err)
	}

	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// AddEngineers is strict: every id must be an engineer of the project's
// company. Ids already on the roster are skipped.
func (s *ProjectService) AddEngineers(ctx context.Context, actor types.Actor, projectID uint, engineerIDs []uint) (*types.EngineersAdded, error) {
	if err := Authorize(actor, types.RoleAdmin, types.RoleManager); err != nil {
		return nil, err
	}

	var result *types.EngineersAdded

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		project, err := loadManagedProject(tx, actor, projectID)
		if err != nil {
			return err
		}

		ids := uniqueIDs(engineerIDs)
		if len(ids) == 0 {
			return conflict("Engineer list cannot be empty")
		}

		var engineers []models.User
		if err := tx.Where("id IN ? AND role = ?", ids, types.RoleEngineer).Find(&engineers).Error; err != nil {
			return storeErr("Failed to load engineers", err)
		}

		found := make(map[uint]models.User, len(engineers))
		for _, engineer := range engineers {
			found[engineer.ID] = engineer
		}

		var missing, foreign []uint
		for _, id := range ids {
			engineer, ok := found[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			if engineer.CompanyID == nil || *engineer.CompanyID != project.CompanyID {
				foreign = append(foreign, id)
			}
		}

		if len(missing) > 0 {
			return notFound("Engineers not found: %s", joinIDs(missing))
		}
		if len(foreign) > 0 {
			return conflict("Engineers belong to a different company: %s", joinIDs(foreign))
		}

		current, err := rosterIDs(tx, project.ID)
		if err != nil {
			return err
		}

		added := []uint{}
		rows := []models.ProjectEngineer{}
		for _, id := range ids {
			if _, ok := current[id]; ok {
				continue
			}
			added = append(added, id)
			rows = append(rows, models.ProjectEngineer{ProjectID: project.ID, UserID: id})
		}

		if len(rows) == 0 {
			return conflict("All engineers are already added to the project")
		}

		if err := tx.Create(&rows).Error; err != nil {
			return storeErr("Failed to add engineers", err)
		}

		result = &types.EngineersAdded{
			ProjectID:           project.ID,
			AddedEngineersCount: len(added),
			EngineerIDs:         added,
			Message:             "Engineers successfully added to the project",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RemoveEngineers removes all listed engineers or none of them.
func (s *ProjectService) RemoveEngineers(ctx context.Context, actor types.Actor, projectID uint, engineerIDs []uint) (*types.EngineersRemoved, error) {
	if err := Authorize(actor, types.RoleAdmin, types.RoleManager); err != nil {
		return nil, err
	}

	var result *types.EngineersRemoved

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		project, err := loadManagedProject(tx, actor, projectID)
		if err != nil {
			return err
		}

		ids := uniqueIDs(engineerIDs)
		if len(ids) == 0 {
			return conflict("Engineer list cannot be empty")
		}

		current, err := rosterIDs(tx, project.ID)
		if err != nil {
			return err
		}

		var absent []uint
		for _, id := range ids {
			if _, ok := current[id]; !ok {
				absent = append(absent, id)
			}
		}
		if len(absent) > 0 {
			return conflict("Engineers are not assigned to the project: %s", joinIDs(absent))
		}

		var removed []models.User
		if err := tx.Where("id IN ?", ids).Order("id").Find(&removed).Error; err != nil {
			return storeErr("Failed to load engineers", err)
		}

		if err := tx.Where("project_id = ? AND user_id IN ?", project.ID, ids).Delete(&models.ProjectEngineer{}).Error; err != nil {
			return storeErr("Failed to remove engineers", err)
		}

		remaining, err := projectEngineers(tx, project.ID)
		if err != nil {
			return err
		}

		result = &types.EngineersRemoved{
			ProjectID:          project.ID,
			RemovedEngineers:   summaries(removed),
			RemainingEngineers: summaries(remaining),
			Message:            "Engineers successfully removed from the project",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ProjectService) ListOwn(ctx context.Context, actor types.Actor, skip, limit int) ([]types.ProjectResponse, error) {
	if err := Authorize(actor, types.RoleManager); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)

	var projects []models.Project
	if err := tx.Where("manager_id = ?", actor.ID).Order("id").Offset(skip).Limit(limit).Find(&projects).Error; err != nil {
		return nil, unexpected("Failed to retrieve projects", err)
	}

	responses := make([]types.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		response, err := projectResponse(tx, project)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}

	return responses, nil
}

func (s *ProjectService) GetOwn(ctx context.Context, actor types.Actor, projectID uint) (*types.ProjectResponse, error) {
	if err := Authorize(actor, types.RoleManager); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)

	var project models.Project
	if err := first(tx, &project, "Project not found", "id = ? AND manager_id = ?", projectID, actor.ID); err != nil {
		return nil, err
	}

	return projectResponse(tx, project)
}

func projectEngineers(tx *gorm.DB, projectID uint) ([]models.User, error) {
	var engineers []models.User
	err := tx.Joins("JOIN project_engineers ON project_engineers.user_id = users.id").
		Where("project_engineers.project_id = ?", projectID).
		Order("users.id").
		Find(&engineers).Error
	if err != nil {
		return nil, storeErr("Failed to load project engineers", err)
	}
	return engineers, nil
}

func projectResponse(tx *gorm.DB, project models.Project) (*types.ProjectResponse, error) {
	engineers, err := projectEngineers(tx, project.ID)
	if err != nil {
		return nil, err
	}

	var defects []models.Defect
	if err := tx.Where("project_id = ?", project.ID).Order("id").Find(&defects).Error; err != nil {
		return nil, storeErr("Failed to load project defects", err)
	}

	response := &types.ProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		CompanyID: project.CompanyID,
		ManagerID: project.ManagerID,
		Engineers: summaries(engineers),
		Defects:   make([]types.DefectResponse, 0, len(defects)),
	}
	for _, defect := range defects {
		response.Defects = append(response.Defects, defect.Response())
	}

	return response, nil
}

func summaries(users []models.User) []types.UserSummary {
	out := make([]types.UserSummary, 0, len(users))
	for _, user := range users {
		out = append(out, user.Summary())
	}
	return out
}
