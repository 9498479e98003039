package main

import (
	"abs/src/db"
	"abs/src/models"
	"abs/src/types"
	"abs/src/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func packageHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/organizations", func(ctx *gin.Context) {
			var body types.CreateOrganizationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			org := models.Organization{
				Name:            body.Name,
				Slug:            slug.Make(body.Name),
				ContactEmail:    body.ContactEmail,
				DiscountPercent: body.DiscountPercent,
				OwnerID:         userId,
			}
			dbi := db.GetDb()
			if err := dbi.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&org).Error
			}); err != nil {
				utils.AbortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": org})
		}).
		GET("/organizations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			var org models.Organization
			if err := dbi.
				Model(&models.Organization{}).
				Where("id = ?", params.ID).
				First(&org).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				utils.AbortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": org})
		}).
		POST("/organizations/:id/packages", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreatePackageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			dbi := db.GetDb()
			var org models.Organization
			if err := dbi.
				Model(&models.Organization{}).
				Where("id = ?", params.ID).
				First(&org).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.AbortWithDomainError(ctx, &types.NotFoundError{Resource: "organization", ID: params.ID})
					return
				}
				utils.AbortWithDomainError(ctx, err)
				return
			}
			if org.OwnerID != userId && !utils.IsStaff(ctx.GetString("role")) {
				utils.AbortWithDomainError(ctx, &types.AuthorizationError{Action: "manage this organization's packages"})
				return
			}
			pkg := models.CorporatePackage{
				OrgID:                    org.ID,
				TotalCredits:             body.TotalCredits,
				PermanentDiscountPercent: body.DiscountPercent,
				ExpiresAt:                body.ExpiresAt,
				IsActive:                 true,
			}
			if err := dbi.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&pkg).Error
			}); err != nil {
				utils.AbortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": pkg})
		}).
		GET("/organizations/:id/packages", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			var packages []models.CorporatePackage
			if err := dbi.
				Model(&models.CorporatePackage{}).
				Where("org_id = ?", params.ID).
				Order("created_at desc").
				Find(&packages).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": packages, "count": len(packages)})
		}).
		PUT("/packages/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdatePackageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !utils.IsStaff(ctx.GetString("role")) {
				utils.AbortWithDomainError(ctx, &types.AuthorizationError{Action: "update packages"})
				return
			}
			dbi := db.GetDb()
			res := dbi.
				Model(&models.CorporatePackage{}).
				Where("id = ?", params.ID).
				Update("is_active", *body.Active)
			if res.Error != nil {
				utils.AbortWithDomainError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				utils.AbortWithDomainError(ctx, &types.NotFoundError{Resource: "package", ID: params.ID})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
