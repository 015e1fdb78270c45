package rest

import (
	"net/http"
	"strconv"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// maxImage — предел загружаемой картинки.
const maxImage = 10 << 20

// GET /products?limit=&offset= — страница каталога, общее число в X-Total-Count.
func (h *Handler) listProducts(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	products, err := h.svc.Products.List(ctx)
	if err != nil {
		h.writeError(c, "list products", err)
		return
	}

	limit, offset := httpx.ParseLimitOffset(c, 50, 200)
	total := len(products)
	start, end := httpx.Window(total, limit, offset)

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, products[start:end])
}

func (h *Handler) getProduct(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	p, err := h.svc.Products.Get(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, "get product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createProduct(c *gin.Context) {
	in, ok := bindStrict[domain.ProductInput](c)
	if !ok {
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	p, err := h.svc.Products.Create(ctx, in)
	if err != nil {
		h.writeError(c, "create product", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	patch, ok := bindStrict[domain.ProductPatch](c)
	if !ok {
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	p, err := h.svc.Products.Update(ctx, c.Param("id"), patch)
	if err != nil {
		h.writeError(c, "update product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) toggleProduct(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	p, err := h.svc.Products.ToggleActive(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, "toggle product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.svc.Products.Delete(ctx, c.Param("id")); err != nil {
		h.writeError(c, "delete product", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /uploads/image — multipart, поле "file". Ответ: {"url": "..."}.
func (h *Handler) uploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImage)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	url, err := h.svc.Products.UploadImage(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.writeError(c, "upload image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
