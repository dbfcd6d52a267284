package types

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CompanyID *uint  `json:"company_id"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

type CompanyResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CompanyListEntry struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	ProjectsCount int64  `json:"projects_count"`
	UsersCount    int64  `json:"users_count"`
}

type DefectResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ProjectID  uint   `json:"project_id"`
	EngineerID *uint  `json:"engineer_id"`
}

type ProjectResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	CompanyID uint             `json:"company_id"`
	ManagerID *uint            `json:"manager_id"`
	Engineers []UserSummary    `json:"engineers"`
	Defects   []DefectResponse `json:"defects"`
}

// Company detail view.

type CompanyDetail struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Projects  []ProjectDetail  `json:"projects"`
	Managers  []ManagerDetail  `json:"managers"`
	Engineers []EngineerDetail `json:"engineers"`
}

type ManagerDetail struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Projects []string `json:"projects"`
}

type EngineerDefect struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ProjectID uint   `json:"project_id"`
}

type EngineerDetail struct {
	ID       uint             `json:"id"`
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Defects  []EngineerDefect `json:"defects"`
}

type ManagerSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ProjectDetail struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	ManagerID *uint            `json:"manager_id"`
	Manager   *ManagerSummary  `json:"manager,omitempty"`
	Engineers []EngineerDetail `json:"engineers"`
	Defects   []DefectResponse `json:"defects"`
}

// Mutation confirmations.

type MembershipResult struct {
	UserID    uint   `json:"user_id"`
	CompanyID uint   `json:"company_id"`
	Role      Role   `json:"role"`
	Message   string `json:"message"`
}

type ManagerAssignment struct {
	ProjectID         uint   `json:"project_id"`
	ManagerID         uint   `json:"manager_id"`
	PreviousManagerID *uint  `json:"previous_manager_id"`
	Message           string `json:"message"`
}

type EngineersAdded struct {
	ProjectID           uint   `json:"project_id"`
	AddedEngineersCount int    `json:"added_engineers_count"`
	EngineerIDs         []uint `json:"engineer_ids"`
	Message             string `json:"message"`
}

type EngineersRemoved struct {
	ProjectID          uint          `json:"project_id"`
	RemovedEngineers   []UserSummary `json:"removed_engineers"`
	RemainingEngineers []UserSummary `json:"remaining_engineers"`
	Message            string        `json:"message"`
}

type EngineerAssignment struct {
	DefectID           uint   `json:"defect_id"`
	EngineerID         uint   `json:"engineer_id"`
	PreviousEngineerID *uint  `json:"previous_engineer_id"`
	Message            string `json:"message"`
}

type ManagerRemoval struct {
	ProjectID         uint   `json:"project_id"`
	PreviousManagerID uint   `json:"previous_manager_id"`
	Message           string `json:"message"`
}

type EngineerRemoval struct {
	DefectID   uint   `json:"defect_id"`
	DefectName string `json:"defect_name"`
	EngineerID uint   `json:"engineer_id"`
	Message    string `json:"message"`
}
