package wpfront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/wpfront/form"
	"github.com/eringen/wpfront/markdown"
	"github.com/eringen/wpfront/views"
	"github.com/eringen/wpfront/wordpress"
)

const (
	contactFormName = "contact"
	productFormName = "product"

	contactSuccessMessage = "Your message has been sent successfully!"
	contactErrorMessage   = "Failed to send message. Please try again."
	productSuccessMessage = "Product created successfully!"
	productErrorMessage   = "Failed to create product. Please try again."
	rateLimitedMessage    = "Too many submissions. Please wait a moment and try again."
)

var errRateLimited = errors.New("wpfront: too many submissions")

// fallbackCategories fills the product form's category select when the
// upstream category listing is unavailable.
var fallbackCategories = []views.Option{
	{Value: "15", Label: "Uncategorized"},
	{Value: "16", Label: "Bar Soaps"},
	{Value: "17", Label: "Liquid Soaps"},
	{Value: "18", Label: "Gift Sets"},
}

var validate = newValidator()

// newValidator reports field errors under their form names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors converts a validation error into form-name -> message.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}
	out["_"] = "Invalid form data."
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "url":
		return "Please enter a valid URL."
	case "max":
		return "Must be at most " + param + " characters."
	case "numeric", "number":
		return "Please enter a number."
	case "oneof":
		return "Please choose one of the options."
	default:
		return "Invalid value."
	}
}

type contactSubmission struct {
	Name    string `form:"name" validate:"required,max=200"`
	Email   string `form:"email" validate:"required,email,max=255"`
	Subject string `form:"subject" validate:"required,oneof=general product custom wholesale feedback"`
	Message string `form:"message" validate:"required,max=5000"`
}

func contactFrom(v url.Values) contactSubmission {
	return contactSubmission{
		Name:    strings.TrimSpace(v.Get("name")),
		Email:   strings.TrimSpace(v.Get("email")),
		Subject: strings.TrimSpace(v.Get("subject")),
		Message: strings.TrimSpace(v.Get("message")),
	}
}

type productSubmission struct {
	Name             string `form:"name" validate:"required,max=200"`
	Price            string `form:"price" validate:"required,numeric"`
	Description      string `form:"description"`
	ShortDescription string `form:"short_description"`
	Category         string `form:"category" validate:"required,number"`
	ImageURL         string `form:"image_url" validate:"omitempty,url"`
	StockStatus      string `form:"stock_status" validate:"required,oneof=instock outofstock onbackorder"`
	StockQuantity    string `form:"stock_quantity" validate:"required,number"`
}

func productFrom(v url.Values) productSubmission {
	return productSubmission{
		Name:             strings.TrimSpace(v.Get("name")),
		Price:            strings.TrimSpace(v.Get("price")),
		Description:      strings.TrimSpace(v.Get("description")),
		ShortDescription: strings.TrimSpace(v.Get("short_description")),
		Category:         strings.TrimSpace(v.Get("category")),
		ImageURL:         strings.TrimSpace(v.Get("image_url")),
		StockStatus:      strings.TrimSpace(v.Get("stock_status")),
		StockQuantity:    strings.TrimSpace(v.Get("stock_quantity")),
	}
}

// maxStockQuantity bounds the stock a single submission may declare.
const maxStockQuantity = 1_000_000

// creationRequest assembles the WooCommerce payload. The description is
// written in Markdown and sent as HTML. Numeric fields that parse but fall
// outside their range are reported as field errors.
func (p productSubmission) creationRequest() (wordpress.ProductCreationRequest, map[string]string) {
	fields := map[string]string{}
	category, err := strconv.Atoi(p.Category)
	if err != nil || category <= 0 {
		fields["category"] = "Please choose one of the options."
	}
	quantity, err := strconv.Atoi(p.StockQuantity)
	if err != nil || quantity < 0 || quantity > maxStockQuantity {
		fields["stock_quantity"] = "Must be between 0 and " + strconv.Itoa(maxStockQuantity) + "."
	}
	if price, err := strconv.ParseFloat(p.Price, 64); err != nil || price < 0 {
		fields["price"] = "Please enter a price of 0 or more."
	}
	if len(fields) > 0 {
		return wordpress.ProductCreationRequest{}, fields
	}

	req := wordpress.ProductCreationRequest{
		Name:             p.Name,
		Type:             "simple",
		RegularPrice:     p.Price,
		Description:      markdown.ToHTML(p.Description),
		ShortDescription: p.ShortDescription,
		Categories:       []wordpress.TermRef{{ID: category}},
		Images:           []wordpress.ImageRef{},
		StockStatus:      p.StockStatus,
		ManageStock:      true,
		StockQuantity:    quantity,
	}
	if p.ImageURL != "" {
		req.Images = append(req.Images, wordpress.ImageRef{Src: p.ImageURL})
	}
	return req, nil
}

// productContent renders the relayed post body: the description followed
// by the product facts.
func productContent(p wordpress.ProductCreationRequest, categories []views.Option) string {
	var b strings.Builder
	b.WriteString("- **Price:** " + p.RegularPrice + "\n")
	b.WriteString("- **Stock:** " + optionLabel(views.StockStatuses, p.StockStatus) +
		" (" + strconv.Itoa(p.StockQuantity) + ")\n")
	if len(p.Categories) > 0 {
		id := strconv.Itoa(p.Categories[0].ID)
		b.WriteString("- **Category:** " + optionLabel(categories, id) + "\n")
	}
	if p.ShortDescription != "" {
		b.WriteString("- **Summary:** " + p.ShortDescription + "\n")
	}
	for _, img := range p.Images {
		b.WriteString("- **Image:** [" + img.Src + "](" + img.Src + ")\n")
	}
	return p.Description + markdown.ToHTML(b.String())
}

// optionLabel returns the label of the option with the given value, or the
// value itself when none matches.
func optionLabel(opts []views.Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// newMachine returns a request-scoped form machine that logs its transitions.
func (a *App) newMachine(name, success, failure string) *form.Machine {
	m := form.New(a.Config.FormRevertDelay)
	m.SuccessMessage = success
	m.ErrorMessage = failure
	m.OnChange(func(s form.Snapshot) {
		a.Logger.Debug("form transition",
			zap.String("form", name),
			zap.Stringer("status", s.Status),
		)
	})
	return m
}

// submit runs one submission through m. Rate-limited clients get an error
// state without send being called.
func (a *App) submit(c echo.Context, m *form.Machine, send form.Send) (form.Snapshot, error) {
	values, err := c.FormParams()
	if err != nil {
		return form.Snapshot{}, err
	}
	values = formValues(values)
	defer m.Close()

	if !a.limiter.Allow(c.RealIP()) {
		a.Logger.Warn("form submission rate limited", zap.String("remote_ip", c.RealIP()))
		m.ErrorMessage = rateLimitedMessage
		send = func(context.Context, url.Values) error { return errRateLimited }
	}
	return m.Submit(c.Request().Context(), values, send), nil
}

// formValues drops the transport fields that are not part of a form's state.
func formValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		if k == "_csrf" || k == "partial" {
			continue
		}
		out[k] = vals
	}
	return out
}

// formState picks what a GET of a form page shows: an idle form refilled
// from the query (the htmx revert), a flashed outcome from a redirect, or a
// fresh idle form.
func (a *App) formState(c echo.Context, name string) form.Snapshot {
	if c.QueryParam("partial") == "form" {
		return form.Snapshot{Status: form.Idle, Values: formValues(c.QueryParams())}
	}
	if f, ok := takeFlash(c, name); ok {
		snap := form.Snapshot{
			Status:  form.Status(f.Status),
			Values:  url.Values{},
			Message: f.Message,
		}
		if snap.Settled() {
			snap.RevertAfter = a.Config.FormRevertDelay
		}
		return snap
	}
	return form.Snapshot{Status: form.Idle, Values: url.Values{}}
}

// formResponders renders a form either as the htmx partial or inside its
// full page.
type formResponders struct {
	name    string
	path    string
	partial func(views.FormView) templ.Component
	page    func(views.FormView) templ.Component
}

// respondForm answers a submission. htmx gets the form partial. Plain
// browsers are redirected back after a success and get the full page with
// 422 after a failure, so typed values and field errors are rendered
// directly instead of travelling through the session cookie.
func (a *App) respondForm(c echo.Context, r formResponders, snap form.Snapshot) error {
	f := views.FormView{Snapshot: snap, CSRF: CsrfToken(c)}
	if IsHTMX(c) {
		return Render(c, r.partial(f))
	}
	if snap.Status == form.Error {
		return RenderStatus(c, http.StatusUnprocessableEntity, r.page(f))
	}
	err := setFlash(c, flash{
		Form:    r.name,
		Status:  int(snap.Status),
		Message: snap.Message,
	})
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, r.path)
}

func (a *App) handleContact(c echo.Context) error {
	f := views.FormView{Snapshot: a.formState(c, contactFormName), CSRF: CsrfToken(c)}
	if c.QueryParam("partial") == "form" {
		return Render(c, views.ContactForm(f))
	}
	return Render(c, views.Contact(a.Config.view(), f))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	m := a.newMachine(contactFormName, contactSuccessMessage, contactErrorMessage)
	snap, err := a.submit(c, m, a.sendContact(c.RealIP()))
	if err != nil {
		return err
	}
	return a.respondForm(c, formResponders{
		name:    contactFormName,
		path:    "/contact/",
		partial: views.ContactForm,
		page: func(f views.FormView) templ.Component {
			return views.Contact(a.Config.view(), f)
		},
	}, snap)
}

// sendContact validates a contact submission and stores it in the inbox.
func (a *App) sendContact(remoteIP string) form.Send {
	return func(ctx context.Context, values url.Values) error {
		sub := contactFrom(values)
		if err := validate.Struct(sub); err != nil {
			return &form.ValidationError{Fields: fieldErrors(err)}
		}
		id, err := a.Inbox.Save(ctx, ContactMessage{
			Name:     sub.Name,
			Email:    sub.Email,
			Subject:  sub.Subject,
			Body:     sub.Message,
			RemoteIP: remoteIP,
		})
		if err != nil {
			a.Logger.Error("contact: save message", zap.Error(err))
			return err
		}
		a.Logger.Info("contact message stored",
			zap.Int64("id", id),
			zap.String("subject", sub.Subject),
		)
		return nil
	}
}

// categoryOptions lists the upstream product categories, or the fixed
// fallback set when they cannot be fetched.
func (a *App) categoryOptions(ctx context.Context) []views.Option {
	res := a.WP.ListCategories(ctx)
	if !res.OK() {
		a.warnFailed("list categories", res.Outcome, res.Err)
		return fallbackCategories
	}
	opts := make([]views.Option, 0, len(res.Value))
	for _, cat := range res.Value {
		opts = append(opts, views.Option{Value: strconv.Itoa(cat.ID), Label: cat.Name})
	}
	return opts
}

func (a *App) handlePostProduct(c echo.Context) error {
	f := views.FormView{
		Snapshot: a.formState(c, productFormName),
		CSRF:     CsrfToken(c),
		Options:  a.categoryOptions(c.Request().Context()),
	}
	if c.QueryParam("partial") == "form" {
		return Render(c, views.ProductForm(f))
	}
	return Render(c, views.PostProduct(a.Config.view(), f))
}

func (a *App) handlePostProductSubmit(c echo.Context) error {
	options := a.categoryOptions(c.Request().Context())
	m := a.newMachine(productFormName, productSuccessMessage, productErrorMessage)
	snap, err := a.submit(c, m, a.sendProduct(options))
	if err != nil {
		return err
	}
	return a.respondForm(c, formResponders{
		name: productFormName,
		path: "/post-product/",
		partial: func(f views.FormView) templ.Component {
			f.Options = options
			return views.ProductForm(f)
		},
		page: func(f views.FormView) templ.Component {
			f.Options = options
			return views.PostProduct(a.Config.view(), f)
		},
	}, snap)
}

// sendProduct validates the product form and relays it upstream. categories
// label the category id in the relayed content.
func (a *App) sendProduct(categories []views.Option) form.Send {
	return func(ctx context.Context, values url.Values) error {
		sub := productFrom(values)
		if err := validate.Struct(sub); err != nil {
			return &form.ValidationError{Fields: fieldErrors(err)}
		}
		product, fields := sub.creationRequest()
		if fields != nil {
			return &form.ValidationError{Fields: fields}
		}
		resp, err := a.relay(ctx, relayRequest{
			Name:    product.Name,
			Content: productContent(product, categories),
		})
		if err != nil {
			return err
		}
		if !resp.OK() {
			return fmt.Errorf("wpfront: relay rejected with status %d", resp.Status)
		}
		a.Logger.Info("product relayed",
			zap.String("name", product.Name),
			zap.Int("category", product.Categories[0].ID),
			zap.Int("stock_quantity", product.StockQuantity),
			zap.Int("status", resp.Status),
		)
		return nil
	}
}
