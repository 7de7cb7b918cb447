package handlers

import (
	"net/http"
	"strings"

	"partner_repairs/pkg"

	"github.com/gin-gonic/gin"
)

// HeaderTenantID carries the partner identity. It is trusted as given.
const HeaderTenantID = "X-Tenant-ID"

var errMissingTenant = pkg.NewDomainErrorSimple("MISSING_TENANT", "X-Tenant-ID header is required", http.StatusBadRequest)

func tenantID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderTenantID))
}

// requireTenant writes the error response and returns false when the header
// is absent.
func requireTenant(c *gin.Context) (string, bool) {
	t := tenantID(c)
	if t == "" {
		c.JSON(errMissingTenant.HTTPStatus, errMissingTenant.ToHTTPError())
		return "", false
	}
	return t, true
}

// visibleTo hides records of other tenants. Calls without the header see all.
func visibleTo(c *gin.Context, owner string) bool {
	t := tenantID(c)
	return t == "" || t == owner
}

func writeAppError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
