package ocm

// ProjectRequest is the body of /project/create.
type ProjectRequest struct {
	AccountID    string `json:"accountId"`
	HPCID        string `json:"hpcId"`
	ProjectTitle string `json:"projectTitle"`
	ProjectGoal  string `json:"projectGoal"`
}

// Project is a created OCM project.
type Project struct {
	ProjectID string `json:"projectId"`
}

// Product is an OCM product (application) a design can belong to.
type Product struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
}

// DesignRequest is the body of /design/create.
type DesignRequest struct {
	ProjectID   string `json:"projectId"`
	ProductID   string `json:"productId"`
	DesignTitle string `json:"designTitle"`
}

// Design is a created OCM design. Each design starts with one instance.
type Design struct {
	DesignID           string           `json:"designId"`
	ProjectID          string           `json:"projectId"`
	ProductID          string           `json:"productId"`
	DesignInstanceList []DesignInstance `json:"designInstanceList"`
}

// DesignInstance identifies one instance (branch) of a design.
type DesignInstance struct {
	DesignInstanceID string `json:"designInstanceId"`
}

// User holds the details of the authenticated user.
type User struct {
	UserID string `json:"userId"`
}

// AccountEntry is one element of the /account/list response.
type AccountEntry struct {
	Account struct {
		AccountID   string `json:"accountId"`
		AccountName string `json:"accountName"`
	} `json:"account"`
}

type loginRequest struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type hpcRequest struct {
	AccountID string `json:"accountId"`
}

type hpcResponse struct {
	HPCID string `json:"hpcId"`
}
