package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/internal/model"
)

func (r *routes) registerRBAC(g *gin.RouterGroup, h *handle.Handler) {
	admin := g.Group("", r.gate(model.PermSystemAdmin)...)
	{
		admin.GET("/getRoles", h.GetRoles)
		admin.GET("/getRole/:roleId", h.GetRole)
		admin.POST("/createRole", h.CreateRole)
		admin.PUT("/updateRole/:roleId", h.UpdateRole)
		admin.DELETE("/deleteRole/:roleId", h.DeleteRole)

		admin.GET("/getPermissions", h.GetPermissions)
		admin.GET("/getPermission/:permissionId", h.GetPermission)
		admin.POST("/createPermission", h.CreatePermission)
		admin.PUT("/updatePermission/:permissionId", h.UpdatePermission)
		admin.DELETE("/deletePermission/:permissionId", h.DeletePermission)
	}
}

func (r *routes) registerTags(g *gin.RouterGroup, h *handle.Handler) {
	g.GET("/getTags", with(r.gate(model.PermSystemAdmin, model.PermTagView), h.GetTags)...)
	g.GET("/getTag/:tagId", with(r.gate(model.PermSystemAdmin, model.PermTagView), h.GetTag)...)
	g.POST("/createTag", with(r.gate(model.PermSystemAdmin, model.PermTagCreate), h.CreateTag)...)
	g.PUT("/updateTag/:tagId", with(r.gate(model.PermSystemAdmin, model.PermTagUpdate), h.UpdateTag)...)
	g.DELETE("/deleteTag/:tagId", with(r.gate(model.PermSystemAdmin, model.PermTagDelete), h.DeleteTag)...)
}
