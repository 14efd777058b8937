package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           arrmon API
// @version         1.0
// @description     HTTP API for Radarr/Sonarr download queue monitoring.
//
// @contact.name   arrmon maintainers
// @contact.url    https://github.com/your-org/arrmon
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
