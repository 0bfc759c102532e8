package inventoryapi

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/target/ims-ui/internal/domain/model"
)

type formField struct {
	name  string
	value string
}

// multipartBody is a product form as the backend expects it: plain text parts
// plus an optional imageFile part.
type multipartBody struct {
	fields []formField
	file   *model.Upload
}

func productMultipart(form model.ProductForm) *multipartBody {
	b := &multipartBody{
		fields: []formField{
			{"name", form.Name},
			{"description", form.Description},
			{"sku", form.SKU},
			{"price", form.Price},
			{"categoryId", form.CategoryID},
			{"stockQuantity", form.StockQuantity},
		},
	}
	if form.ProductID > 0 {
		b.fields = append(b.fields, formField{"productId", strconv.FormatInt(form.ProductID, 10)})
	}
	if form.Image != nil && len(form.Image.Data) > 0 {
		b.file = form.Image
	}
	return b
}

func (b *multipartBody) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range b.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if b.file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imageFile"; filename=%q`, b.file.Filename))
		ct := b.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(b.file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
