package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/workforce"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func parsePage(c *gin.Context) workforce.Pagination {
	offset, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	return workforce.Pagination{Offset: offset, Limit: limit}
}

func parseRowID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return id, true
}

func (h *httpHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, workforce.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	h.logger.Error("store operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "store_failed"})
}

// listHandler, getHandler, createHandler, updateHandler, and deleteHandler
// build the pass-through CRUD adapters shared by every entity group. Updates
// bind the request body over the existing row, so absent fields keep their
// stored values.
func listHandler[T any](h *httpHandler, list func(context.Context, workforce.Pagination) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := list(c.Request.Context(), parsePage(c))
		if err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func getHandler[T any](h *httpHandler, get func(context.Context, int64) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRowID(c)
		if !ok {
			return
		}
		row, err := get(c.Request.Context(), id)
		if err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func createHandler[T any](h *httpHandler, create func(context.Context, *T) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row T
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := create(c.Request.Context(), &row); err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func updateHandler[T any](h *httpHandler, get func(context.Context, int64) (T, error), save func(context.Context, *T) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRowID(c)
		if !ok {
			return
		}
		row, err := get(c.Request.Context(), id)
		if err != nil {
			h.storeError(c, err)
			return
		}
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := save(c.Request.Context(), &row); err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func deleteHandler(h *httpHandler, remove func(context.Context, int64) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRowID(c)
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), id); err != nil {
			h.storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func registerCRUDRoutes(api *gin.RouterGroup, h *httpHandler) {
	repo := h.repo

	users := api.Group("/users")
	users.GET("", listHandler(h, repo.ListUsers))
	users.GET("/:id", func(c *gin.Context) {
		user, err := repo.GetUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})
	users.POST("", createHandler(h, repo.CreateUser))
	users.PUT("/:id", func(c *gin.Context) {
		user, err := repo.GetUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.storeError(c, err)
			return
		}
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := repo.SaveUser(c.Request.Context(), &user); err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})
	users.DELETE("/:id", func(c *gin.Context) {
		if err := repo.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
			h.storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	skills := api.Group("/skills")
	skills.GET("", listHandler(h, repo.ListSkills))
	skills.GET("/:id", getHandler(h, repo.GetSkill))
	skills.POST("", createHandler(h, repo.CreateSkill))
	skills.PUT("/:id", updateHandler(h, repo.GetSkill, repo.SaveSkill))
	skills.DELETE("/:id", deleteHandler(h, repo.DeleteSkill))

	userSkills := api.Group("/user-skills")
	userSkills.GET("", listHandler(h, repo.ListUserSkills))
	userSkills.GET("/:id", getHandler(h, repo.GetUserSkill))
	userSkills.POST("", createHandler(h, repo.CreateUserSkill))
	userSkills.PUT("/:id", updateHandler(h, repo.GetUserSkill, repo.SaveUserSkill))
	userSkills.DELETE("/:id", deleteHandler(h, repo.DeleteUserSkill))

	projects := api.Group("/projects")
	projects.GET("", listHandler(h, repo.ListProjects))
	projects.GET("/:id", getHandler(h, repo.GetProject))
	projects.POST("", createHandler(h, repo.CreateProject))
	projects.PUT("/:id", updateHandler(h, repo.GetProject, repo.SaveProject))
	projects.DELETE("/:id", deleteHandler(h, repo.DeleteProject))

	assets := api.Group("/assets")
	assets.GET("", listHandler(h, repo.ListAssets))
	assets.GET("/:id", getHandler(h, repo.GetAsset))
	assets.POST("", createHandler(h, repo.CreateAsset))
	assets.PUT("/:id", updateHandler(h, repo.GetAsset, repo.SaveAsset))
	assets.DELETE("/:id", deleteHandler(h, repo.DeleteAsset))

	certs := api.Group("/user-certifications")
	certs.GET("", listHandler(h, repo.ListCertifications))
	certs.GET("/:id", getHandler(h, repo.GetCertification))
	certs.POST("", createHandler(h, repo.CreateCertification))
	certs.PUT("/:id", updateHandler(h, repo.GetCertification, repo.SaveCertification))
	certs.DELETE("/:id", deleteHandler(h, repo.DeleteCertification))

	eminence := api.Group("/professional-eminence")
	eminence.GET("", listHandler(h, repo.ListEminenceRecords))
	eminence.GET("/:id", getHandler(h, repo.GetEminenceRecord))
	eminence.POST("", createHandler(h, repo.CreateEminenceRecord))
	eminence.PUT("/:id", updateHandler(h, repo.GetEminenceRecord, repo.SaveEminenceRecord))
	eminence.DELETE("/:id", deleteHandler(h, repo.DeleteEminenceRecord))

	requests := api.Group("/requests")
	requests.GET("", listHandler(h, repo.ListRequests))
	requests.GET("/:id", getHandler(h, repo.GetRequest))
	requests.POST("", createHandler(h, repo.CreateRequest))
	requests.PUT("/:id", updateHandler(h, repo.GetRequest, repo.SaveRequest))
	requests.DELETE("/:id", deleteHandler(h, repo.DeleteRequest))

	mapping := api.Group("/manager-employees")
	mapping.GET("", listHandler(h, repo.ListManagerEmployees))
	mapping.GET("/:manager_id", func(c *gin.Context) {
		rows, err := repo.EmployeesUnderManager(c.Request.Context(), c.Param("manager_id"))
		if err != nil {
			h.storeError(c, err)
			return
		}
		if len(rows) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, rows)
	})
	mapping.POST("", createHandler(h, repo.CreateManagerEmployee))
	mapping.PUT("/:manager_id/:employee_id", func(c *gin.Context) {
		row, err := repo.GetManagerEmployee(c.Request.Context(), c.Param("manager_id"), c.Param("employee_id"))
		if err != nil {
			h.storeError(c, err)
			return
		}
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := repo.SaveManagerEmployee(c.Request.Context(), &row); err != nil {
			h.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	})
	mapping.DELETE("/:manager_id/:employee_id", func(c *gin.Context) {
		if err := repo.DeleteManagerEmployee(c.Request.Context(), c.Param("manager_id"), c.Param("employee_id")); err != nil {
			h.storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
