package taiga

// User is the authenticated Taiga user, as returned by /auth and /users/me.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
	AuthToken string `json:"auth_token,omitempty"`
}

// Project is a Taiga project.
type Project struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description,omitempty"`
	Version          int      `json:"version,omitempty"`
	CreatedDate      string   `json:"created_date,omitempty"`
	ModifiedDate     string   `json:"modified_date,omitempty"`
	Owner            int      `json:"owner,omitempty"`
	IsPrivate        bool     `json:"is_private,omitempty"`
	DefaultOwnerRole int      `json:"default_owner_role,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Members          []int    `json:"members,omitempty"`
}

// UserStory is a Taiga user story.
type UserStory struct {
	ID           int      `json:"id"`
	Subject      string   `json:"subject"`
	Description  string   `json:"description,omitempty"`
	Status       int      `json:"status,omitempty"`
	Project      int      `json:"project,omitempty"`
	AssignedTo   *int     `json:"assigned_to,omitempty"`
	Epic         *int     `json:"epic,omitempty"`
	Milestone    *int     `json:"milestone,omitempty"`
	Version      int      `json:"version,omitempty"`
	CreatedDate  string   `json:"created_date,omitempty"`
	ModifiedDate string   `json:"modified_date,omitempty"`
	Owner        int      `json:"owner,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Task is a Taiga task, optionally attached to a user story.
type Task struct {
	ID           int      `json:"id"`
	Subject      string   `json:"subject"`
	Description  string   `json:"description,omitempty"`
	Status       int      `json:"status,omitempty"`
	Project      int      `json:"project,omitempty"`
	UserStory    *int     `json:"user_story,omitempty"`
	AssignedTo   *int     `json:"assigned_to,omitempty"`
	Version      int      `json:"version,omitempty"`
	CreatedDate  string   `json:"created_date,omitempty"`
	ModifiedDate string   `json:"modified_date,omitempty"`
	Owner        int      `json:"owner,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Issue is a Taiga issue.
type Issue struct {
	ID           int      `json:"id"`
	Subject      string   `json:"subject"`
	Description  string   `json:"description,omitempty"`
	Status       int      `json:"status,omitempty"`
	Priority     int      `json:"priority,omitempty"`
	Severity     int      `json:"severity,omitempty"`
	Type         int      `json:"type,omitempty"`
	Project      int      `json:"project,omitempty"`
	AssignedTo   *int     `json:"assigned_to,omitempty"`
	Version      int      `json:"version,omitempty"`
	CreatedDate  string   `json:"created_date,omitempty"`
	ModifiedDate string   `json:"modified_date,omitempty"`
	Owner        int      `json:"owner,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Epic is a Taiga epic.
type Epic struct {
	ID           int    `json:"id"`
	Subject      string `json:"subject"`
	Description  string `json:"description,omitempty"`
	Status       int    `json:"status,omitempty"`
	Project      int    `json:"project,omitempty"`
	AssignedTo   *int   `json:"assigned_to,omitempty"`
	Color        string `json:"color,omitempty"`
	Version      int    `json:"version,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date,omitempty"`
	Owner        int    `json:"owner,omitempty"`
	UserStories  []int  `json:"user_stories,omitempty"`
}

// Milestone is a Taiga milestone (sprint).
type Milestone struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug,omitempty"`
	Project         int    `json:"project,omitempty"`
	EstimatedStart  string `json:"estimated_start,omitempty"`
	EstimatedFinish string `json:"estimated_finish,omitempty"`
	Version         int    `json:"version,omitempty"`
	CreatedDate     string `json:"created_date,omitempty"`
	ModifiedDate    string `json:"modified_date,omitempty"`
	Owner           int    `json:"owner,omitempty"`
	IsClosed        bool   `json:"closed,omitempty"`
}

// Member is a project membership record.
type Member struct {
	ID       int    `json:"id"`
	User     int    `json:"user,omitempty"`
	Username string `json:"user_name,omitempty"`
	Email    string `json:"user_email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Role     int    `json:"role,omitempty"`
	Project  int    `json:"project,omitempty"`
}

// WikiPage is a Taiga wiki page.
type WikiPage struct {
	ID           int    `json:"id"`
	Slug         string `json:"slug"`
	Content      string `json:"content,omitempty"`
	Project      int    `json:"project,omitempty"`
	Version      int    `json:"version,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date,omitempty"`
	Owner        int    `json:"owner,omitempty"`
}

// RefItem is one entry of per-project reference data: a status, priority,
// severity or issue type.
type RefItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Color string `json:"color,omitempty"`
	Order int    `json:"order,omitempty"`
}
