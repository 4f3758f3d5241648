package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/internal/model"
)

func (r *routes) registerUsers(g *gin.RouterGroup, h *handle.Handler) {
	g.GET("/getUsers", with(r.gate(model.PermSystemAdmin, model.PermManageUsers), h.GetUsers)...)
	g.GET("/getUser/:userId", with(r.gate(model.PermSystemAdmin, model.PermManageUsers, model.PermProfileEdit), h.GetUser)...)
	g.POST("/createUser", with(r.gate(model.PermSystemAdmin, model.PermManageUsers, model.PermProfileCreate), h.CreateUser)...)
	g.PUT("/updateUser/:userId", with(r.gate(model.PermSystemAdmin, model.PermManageUsers, model.PermProfileEdit), h.UpdateUser)...)
	g.DELETE("/deleteUser/:userId", with(r.gate(model.PermSystemAdmin, model.PermManageUsers, model.PermProfileDelete), h.DeleteUser)...)
	g.GET("/getLogins/:userId", with(r.gate(model.PermSystemAdmin, model.PermManageUsers, model.PermProfileView), h.GetLogins)...)
}
