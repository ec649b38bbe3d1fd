package conceptev

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ansys/conceptev-go/pkg/ocm"
)

const (
	// DefaultProjectGoal is the goal given to projects created without one.
	DefaultProjectGoal = "Created from the CLI"

	// DefaultBranchName names the first design and concept of a new project.
	DefaultBranchName = "Branch 1"
)

// ProjectService is the part of OCM that CreateNewProject drives.
// *ocm.Client implements it.
type ProjectService interface {
	CreateProject(ctx context.Context, token string, req ocm.ProjectRequest) (*ocm.Project, error)
	ProductID(ctx context.Context, token, name string) (string, error)
	CreateDesign(ctx context.Context, token string, req ocm.DesignRequest) (*ocm.Design, error)
	UserDetails(ctx context.Context, token string) (*ocm.User, error)
}

var _ ProjectService = (*ocm.Client)(nil)

// CreateNewProject creates an OCM project with one design and a matching
// empty concept, and returns the concept.
//
// The steps run in order: create project, look up the ConceptEV product,
// create design, fetch user details, create concept. A failing step stops
// the workflow with a WorkflowStepError. Nothing already created is rolled
// back: a failure after the first step leaves an OCM project (and possibly
// a design) that the caller must remove.
func CreateNewProject(
	ctx context.Context,
	s *Session,
	projects ProjectService,
	accountID, hpcID, title, goal string,
) (Resource, error) {
	const workflow = "create new project"

	if err := (validation.Errors{
		"account_id": validation.Validate(accountID, validation.Required),
		"hpc_id":     validation.Validate(hpcID, validation.Required),
		"title":      validation.Validate(title, validation.Required),
	}).Filter(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	if goal == "" {
		goal = DefaultProjectGoal
	}

	fail := func(step string, err error) error {
		return &WorkflowStepError{Workflow: workflow, Step: step, Err: err}
	}
	token := s.Token()

	project, err := projects.CreateProject(ctx, token, ocm.ProjectRequest{
		AccountID:    accountID,
		HPCID:        hpcID,
		ProjectTitle: title,
		ProjectGoal:  goal,
	})
	if err != nil {
		return nil, fail("create project", err)
	}
	if project.ProjectID == "" {
		return nil, fail("create project", errors.New("response has no projectId"))
	}

	productID, err := projects.ProductID(ctx, token, ocm.ConceptEVProductName)
	if err != nil {
		return nil, fail("find product", err)
	}

	design, err := projects.CreateDesign(ctx, token, ocm.DesignRequest{
		ProjectID:   project.ProjectID,
		ProductID:   productID,
		DesignTitle: DefaultBranchName,
	})
	if err != nil {
		return nil, fail("create design", err)
	}
	if len(design.DesignInstanceList) == 0 {
		return nil, fail("create design", errors.New("design has no design instance"))
	}

	user, err := projects.UserDetails(ctx, token)
	if err != nil {
		return nil, fail("get user details", err)
	}
	if user.UserID == "" {
		return nil, fail("get user details", errors.New("response has no userId"))
	}

	concept := Concept{
		Name:              DefaultBranchName,
		DesignID:          design.DesignID,
		DesignInstanceID:  design.DesignInstanceList[0].DesignInstanceID,
		ProjectID:         project.ProjectID,
		UserID:            user.UserID,
		CapabilitiesIDs:   []string{},
		ComponentsIDs:     []string{},
		ConfigurationsIDs: []string{},
		DriveCyclesIDs:    []string{},
		JobsIDs:           []string{},
		RequirementsIDs:   []string{},
	}

	resp, err := s.Create(ctx, RouteConcepts, concept, nil)
	if err != nil {
		return nil, fail("create concept", err)
	}
	created, err := resp.Resource()
	if err != nil {
		return nil, fail("create concept", err)
	}

	s.logger.Info("created project",
		"project_id", project.ProjectID,
		"design_instance_id", concept.DesignInstanceID)

	return created, nil
}

// DefaultJobName returns the job name used when none is given.
func DefaultJobName(now time.Time) string {
	return "cli_job: " + now.Format("2006-01-02 15:04:05.000000")
}

// CreateSubmitJob creates a job for concept and starts it on the given
// account and HPC, returning the job-start metadata PollResults expects.
// An empty jobName is replaced by DefaultJobName.
//
// If starting fails, the job created by the first call stays on the server.
func CreateSubmitJob(
	ctx context.Context,
	s *Session,
	concept Concept,
	accountID, hpcID, jobName string,
) (JobInfo, error) {
	const workflow = "create and submit job"

	fail := func(step string, err error) error {
		return &WorkflowStepError{Workflow: workflow, Step: step, Err: err}
	}

	if jobName == "" {
		jobName = DefaultJobName(time.Now())
	}
	requirementIDs := concept.RequirementsIDs
	if requirementIDs == nil {
		requirementIDs = []string{}
	}

	resp, err := s.Create(ctx, RouteJobs, JobInput{
		JobName:          jobName,
		RequirementIDs:   requirementIDs,
		ArchitectureID:   concept.ArchitectureID,
		ConceptID:        concept.ID,
		DesignInstanceID: concept.DesignInstanceID,
	}, nil)
	if err != nil {
		return nil, fail("create job", err)
	}

	var created []json.RawMessage
	if err := resp.Decode(&created); err != nil {
		return nil, fail("create job", err)
	}
	if len(created) != 2 {
		return nil, fail("create job",
			fmt.Errorf("expected [job, uploaded_file], got %d elements", len(created)))
	}

	resp, err = s.Create(ctx, RouteJobsStart, JobStart{
		Job:          created[0],
		UploadedFile: created[1],
		AccountID:    accountID,
		HPCID:        hpcID,
	}, nil)
	if err != nil {
		return nil, fail("start job", err)
	}

	s.logger.Info("submitted job", "job_name", jobName)
	return JobInfo(resp.Body), nil
}

// ConceptIDs returns the ids of all concepts visible to the session, keyed
// by concept name.
func (s *Session) ConceptIDs(ctx context.Context) (map[string]string, error) {
	resp, err := s.Read(ctx, RouteConcepts, "", nil)
	if err != nil {
		return nil, err
	}
	concepts, err := resp.Resources()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(concepts))
	for _, c := range concepts {
		ids[c.String("name")] = c.ID()
	}
	return ids, nil
}

// PopulatedConcept reads the concept of a design instance with its
// sub-resources populated.
func (s *Session) PopulatedConcept(ctx context.Context, designInstanceID string) (Concept, error) {
	resp, err := s.Read(ctx, RouteConcepts, designInstanceID, url.Values{"populated": {"true"}})
	if err != nil {
		return Concept{}, err
	}
	res, err := resp.Resource()
	if err != nil {
		return Concept{}, err
	}
	return DecodeConcept(res)
}
