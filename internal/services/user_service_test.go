package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
)

type UserServiceTestSuite struct {
	suite.Suite
	db             *gorm.DB
	service        *UserService
	projectService *ProjectService
	roleLeader     models.Role
	roleMember     models.Role
}

func (suite *UserServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.roleLeader = models.Role{Name: models.RoleLeader}
	suite.roleMember = models.Role{Name: models.RoleMember}
	suite.Require().NoError(suite.db.Create(&suite.roleLeader).Error)
	suite.Require().NoError(suite.db.Create(&suite.roleMember).Error)

	userRepo := repository.NewUserRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.service = NewUserService(userRepo, projectRepo)
	suite.projectService = NewProjectService(projectRepo, userRepo)
}

func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createUser(username string, roles ...models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Roles:        roles,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *UserServiceTestSuite) TestListIsLeaderOnly() {
	leader := suite.createUser("leader", suite.roleLeader)
	member := suite.createUser("member", suite.roleMember)

	users, err := suite.service.List(identity.FromUser(leader))
	suite.NoError(err)
	suite.Len(users, 2)

	_, err = suite.service.List(identity.FromUser(member))
	suite.ErrorIs(err, ErrLeaderRoleRequired)
}

func (suite *UserServiceTestSuite) TestProfile() {
	user := suite.createUser("alice", suite.roleMember)

	profile, err := suite.service.Profile(identity.FromUser(user))
	suite.NoError(err)
	suite.Equal("alice", profile.Username)
	suite.True(profile.HasRole(models.RoleMember))
}

func (suite *UserServiceTestSuite) TestListForProject() {
	leader := suite.createUser("leader", suite.roleLeader)
	member := suite.createUser("member", suite.roleMember)
	outsider := suite.createUser("outsider", suite.roleMember)

	project, err := suite.projectService.Create(identity.FromUser(leader), CreateProjectInput{Name: "alpha"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.projectService.AddMember(identity.FromUser(leader), project.ID, member.ID))

	users, err := suite.service.ListForProject(identity.FromUser(member), project.ID)
	suite.NoError(err)
	suite.Len(users, 2)

	_, err = suite.service.ListForProject(identity.FromUser(outsider), project.ID)
	suite.ErrorIs(err, ErrNotProjectParticipant)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
