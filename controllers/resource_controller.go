package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/services"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

type ResourceController struct {
	catalog   *services.ResourceCatalog
	bookmarks store.BookmarkStore
	users     store.UserStore
}

func NewResourceController(catalog *services.ResourceCatalog, bookmarks store.BookmarkStore, users store.UserStore) *ResourceController {
	return &ResourceController{catalog: catalog, bookmarks: bookmarks, users: users}
}

type resourceView struct {
	models.Resource
	IsBookmarked bool `json:"isBookmarked"`
}

func (rc *ResourceController) bookmarkSet(c *gin.Context) map[string]bool {
	uid := c.GetString("uid")
	if uid == "" {
		return nil
	}
	ids, err := rc.bookmarks.List(uid)
	if err != nil {
		config.Logger.Errorw("bookmark lookup failed", "error", err, "userID", uid)
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// GetResources lists catalog entries, optionally filtered by type and a
// free-text search. Bookmark flags are filled in when a token is present.
func (rc *ResourceController) GetResources(c *gin.Context) {
	resources := rc.catalog.Filter(c.Query("type"), c.Query("search"))
	marked := rc.bookmarkSet(c)

	views := make([]resourceView, 0, len(resources))
	for _, r := range resources {
		views = append(views, resourceView{Resource: r, IsBookmarked: marked[r.ID]})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"resources": views,
			"count":     len(views),
		},
	})
}

func (rc *ResourceController) GetResource(c *gin.Context) {
	resource, ok := rc.catalog.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Resource not found"})
		return
	}
	marked := rc.bookmarkSet(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"resource": resourceView{Resource: resource, IsBookmarked: marked[resource.ID]}},
	})
}

func (rc *ResourceController) GetResourceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"types": rc.catalog.Types()},
	})
}

func (rc *ResourceController) GetCrisisContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"contacts": rc.catalog.CrisisContacts()},
	})
}

func (rc *ResourceController) GetEducationalResources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"resources": rc.catalog.EducationalResources()},
	})
}

// ToggleBookmark flips the bookmark on a catalog entry and keeps the
// user's lifetime counter in step.
func (rc *ResourceController) ToggleBookmark(c *gin.Context) {
	id := c.Param("id")
	if _, ok := rc.catalog.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Resource not found"})
		return
	}

	uid := c.GetString("uid")
	added, total, err := rc.bookmarks.Toggle(uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := rc.users.SetBookmarkCount(uid, int(total)); err != nil {
		config.Logger.Errorw("bookmark counter update failed", "error", err, "userID", uid)
	}

	message := "Resource bookmarked"
	if !added {
		message = "Bookmark removed"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data": gin.H{
			"isBookmarked":  added,
			"bookmarkCount": total,
		},
	})
}

// GetBookmarks returns the caller's bookmarked catalog entries.
func (rc *ResourceController) GetBookmarks(c *gin.Context) {
	ids, err := rc.bookmarks.List(c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}

	resources := make([]models.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := rc.catalog.Get(id); ok {
			resources = append(resources, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"resources": resources,
			"count":     len(resources),
		},
	})
}
