package models

// Application is a TDS application (package definition) as returned by the REST API.
type Application struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Job            string `json:"job"`
	BuildHost      string `json:"build_host"`
	BuildType      string `json:"build_type"`
	DeployType     string `json:"deploy_type"`
	Arch           string `json:"arch"`
	ValidationType string `json:"validation_type"`
	EnvSpecific    bool   `json:"env_specific"`
}
