package services

import (
	"context"
	"strings"

	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"gorm.io/gorm"
)

type DefectService struct {
	db *gorm.DB
}

func NewDefectService(conn *gorm.DB) *DefectService {
	return &DefectService{db: conn}
}

// Create logs a defect owned by the calling engineer. Projects outside the
// engineer's company are reported as not found.
func (s *DefectService) Create(ctx context.Context, actor types.Actor, name string, projectID uint) (*types.DefectResponse, error) {
	if err := Authorize(actor, types.RoleEngineer); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, conflict("Defect name is required")
	}

	var response types.DefectResponse

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var project models.Project
		if err := first(tx, &project, "Project not found", "id = ?", projectID); err != nil {
			return err
		}

		if !actor.InCompany(project.CompanyID) {
			return notFound("Project not found")
		}

		engineerID := actor.ID
		defect := models.Defect{
			Name:       name,
			ProjectID:  project.ID,
			EngineerID: &engineerID,
		}

		if err := tx.Create(&defect).Error; err != nil {
			return storeErr("Failed to create defect", err)
		}

		response = defect.Response()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// Delete removes a defect owned by the caller. Other engineers' defects are
// reported as not found.
func (s *DefectService) Delete(ctx context.Context, actor types.Actor, defectID uint) error {
	if err := Authorize(actor, types.RoleEngineer); err != nil {
		return err
	}

	return inTx(ctx, s.db, func(tx *gorm.DB) error {
		var defect models.Defect
		if err := first(tx, &defect, "Defect not found", "id = ? AND engineer_id = ?", defectID, actor.ID); err != nil {
			return err
		}

		return storeErr("Failed to delete defect", tx.Delete(&defect).Error)
	})
}

func (s *DefectService) ListOwn(ctx context.Context, actor types.Actor, skip, limit int) ([]types.DefectResponse, error) {
	if err := Authorize(actor, types.RoleEngineer); err != nil {
		return nil, err
	}

	var defects []models.Defect
	if err := s.db.WithContext(ctx).Where("engineer_id = ?", actor.ID).Order("id").Offset(skip).Limit(limit).Find(&defects).Error; err != nil {
		return nil, unexpected("Failed to retrieve defects", err)
	}

	responses := make([]types.DefectResponse, 0, len(defects))
	for _, defect := range defects {
		responses = append(responses, defect.Response())
	}

	return responses, nil
}

func (s *DefectService) GetOwn(ctx context.Context, actor types.Actor, defectID uint) (*types.DefectResponse, error) {
	if err := Authorize(actor, types.RoleEngineer); err != nil {
		return nil, err
	}

	var defect models.Defect
	if err := first(s.db.WithContext(ctx), &defect, "Defect not found", "id = ? AND engineer_id = ?", defectID, actor.ID); err != nil {
		return nil, err
	}

	response := defect.Response()
	return &response, nil
}

func loadDefectProject(tx *gorm.DB, defectID uint) (*models.Defect, *models.Project, error) {
	var defect models.Defect
	if err := first(tx, &defect, "Defect not found", "id = ?", defectID); err != nil {
		return nil, nil, err
	}

	var project models.Project
	if err := first(tx, &project, "Project not found", "id = ?", defect.ProjectID); err != nil {
		return nil, nil, err
	}

	return &defect, &project, nil
}

// authorizeDefectManager lets admins through and restricts managers to
// defects on projects they manage.
func authorizeDefectManager(actor types.Actor, project *models.Project) error {
	if actor.Role == types.RoleManager && !isManagerOf(actor, project.ManagerID) {
		return forbidden("You can only manage defects on your own projects")
	}
	return nil
}

func (s *DefectService) RemoveEngineer(ctx context.Context, actor types.Actor, defectID uint) (*types.EngineerRemoval, error) {
	if err := Authorize(actor, types.RoleAdmin, types.RoleManager); err != nil {
		return nil, err
	}

	var result *types.EngineerRemoval

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		defect, project, err := loadDefectProject(tx, defectID)
		if err != nil {
			return err
		}

		if err := authorizeDefectManager(actor, project); err != nil {
			return err
		}

		if defect.EngineerID == nil {
			return conflict("Defect has no assigned engineer")
		}

		previous := *defect.EngineerID

		if err := tx.Model(defect).Update("engineer_id", nil).Error; err != nil {
			return storeErr("Failed to remove engineer", err)
		}

		result = &types.EngineerRemoval{
			DefectID:   defect.ID,
			DefectName: defect.Name,
			EngineerID: previous,
			Message:    "Engineer successfully removed from the defect",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *DefectService) AssignEngineer(ctx context.Context, actor types.Actor, defectID, engineerID uint) (*types.EngineerAssignment, error) {
	if err := Authorize(actor, types.RoleAdmin, types.RoleManager); err != nil {
		return nil, err
	}

	var result *types.EngineerAssignment

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		defect, project, err := loadDefectProject(tx, defectID)
		if err != nil {
			return err
		}

		var engineer models.User
		if err := first(tx, &engineer, "Engineer not found", "id = ? AND role = ?", engineerID, types.RoleEngineer); err != nil {
			return err
		}

		if err := authorizeDefectManager(actor, project); err != nil {
			return err
		}

		if engineer.CompanyID == nil || *engineer.CompanyID != project.CompanyID {
			return conflict("Engineer and project belong to different companies")
		}

		if defect.EngineerID != nil && *defect.EngineerID == engineer.ID {
			return conflict("Defect is already assigned to this engineer")
		}

		previous := cloneID(defect.EngineerID)

		if err := tx.Model(defect).Update("engineer_id", engineer.ID).Error; err != nil {
			return storeErr("Failed to assign engineer", err)
		}

		message := "Engineer successfully assigned to the defect"
		if previous != nil {
			message = "Defect engineer successfully changed"
		}

		result = &types.EngineerAssignment{
			DefectID:           defect.ID,
			EngineerID:         engineer.ID,
			PreviousEngineerID: previous,
			Message:            message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
