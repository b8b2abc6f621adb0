package webapp

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agriport/internal/api"
	"agriport/internal/controller"
	"agriport/internal/poller"
	"agriport/internal/render"
	"agriport/internal/session"
)

// pageView captures controller output for one request so the page
// template can lay it out. Each request gets its own instance.
type pageView struct {
	stats         map[string]float64
	reservations  []template.HTML
	notifications []template.HTML
	actions       []controller.Action
	items         []template.HTML
	unreadCount   int
	conversation  api.Conversation
	bubbles       []template.HTML
	errorMessage  string
}

func (v *pageView) ShowDashboard(stats map[string]float64, reservations, notifications []template.HTML, actions []controller.Action) {
	v.stats = stats
	v.reservations = reservations
	v.notifications = notifications
	v.actions = actions
}

func (v *pageView) ShowNotifications(items []template.HTML, unreadCount int) {
	v.items = items
	v.unreadCount = unreadCount
}

func (v *pageView) ShowConversation(conv api.Conversation, messages []template.HTML) {
	v.conversation = conv
	v.bubbles = messages
}

func (v *pageView) AppendOptimistic(string, template.HTML) {}
func (v *pageView) RemoveOptimistic(string)                {}

func (v *pageView) ShowError(message string) {
	v.errorMessage = message
}

// fail renders the error page, or bounces expired sessions to login.
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, api.ErrSessionExpired) {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("page failed")
	c.HTML(http.StatusBadGateway, "error", gin.H{"Title": "Error", "Message": err.Error()})
}

func (s *Server) currentSession(c *gin.Context) *session.Session {
	current, err := s.sessions.Read()
	if err != nil || current == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil
	}
	return current
}

func (s *Server) LoginForm(c *gin.Context) {
	role := c.DefaultQuery("role", string(session.UserTypeBuyer))
	c.HTML(http.StatusOK, "login", gin.H{
		"Title": "Login", "Role": role,
		"Email": "", "Banner": "", "FieldErrors": map[string]string{},
	})
}

func (s *Server) Login(c *gin.Context) {
	role := session.UserType(c.PostForm("role"))
	email := c.PostForm("email")
	password := c.PostForm("password")

	renderForm := func(banner string, fieldErrors map[string]string) {
		if fieldErrors == nil {
			fieldErrors = map[string]string{}
		}
		c.HTML(http.StatusOK, "login", gin.H{
			"Title": "Login", "Role": string(role),
			"Email": email, "Banner": banner, "FieldErrors": fieldErrors,
		})
	}

	if !role.Valid() {
		renderForm("Unknown role", nil)
		return
	}

	_, err := s.client.LoginAndSave(c.Request.Context(), role, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			// field errors inline, everything else as a banner
			renderForm(apiErr.Message, apiErr.FieldErrors)
			return
		}
		renderForm("Could not reach the server. Please try again.", nil)
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.sessions.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session on logout")
	}
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) Dashboard(c *gin.Context) {
	current := s.currentSession(c)
	if current == nil {
		return
	}

	view := &pageView{}
	ctrl := controller.NewDashboardController(s.client, view, controller.ConfigForRole(current.UserType))
	if err := ctrl.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Title":         current.DisplayName + "'s Dashboard",
		"Stats":         view.stats,
		"Actions":       view.actions,
		"Reservations":  view.reservations,
		"Notifications": view.notifications,
	})
}

func (s *Server) Notifications(c *gin.Context) {
	view := &pageView{}
	ctrl := controller.NewNotificationController(s.client, view, s.pagePoller("notifications"))
	if err := ctrl.Refresh(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	if f := c.Query("filter"); f != "" {
		if err := ctrl.SetFilter(controller.Filter(f)); err != nil {
			s.fail(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "notifications", gin.H{
		"Title": "Notifications", "Items": view.items, "UnreadCount": view.unreadCount,
	})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/notifications")
		return
	}
	if err := s.client.MarkNotificationRead(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notifications")
}

func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	if err := s.client.MarkAllNotificationsRead(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notifications")
}

func (s *Server) Products(c *gin.Context) {
	search := c.Query("search")
	list, err := s.client.ListProducts(c.Request.Context(), api.ListProductsParams{Search: search})
	if err != nil {
		s.fail(c, err)
		return
	}

	cards := make([]template.HTML, 0, len(list.Products))
	for _, p := range list.Products {
		card, err := render.ProductCard(p)
		if err != nil {
			s.fail(c, err)
			return
		}
		cards = append(cards, card)
	}

	c.HTML(http.StatusOK, "products", gin.H{"Title": "Marketplace", "Search": search, "Cards": cards})
}

func (s *Server) Conversations(c *gin.Context) {
	current := s.currentSession(c)
	if current == nil {
		return
	}

	list, err := s.client.ListConversations(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	items := make([]template.HTML, 0, len(list.Conversations))
	for _, conv := range list.Conversations {
		item, err := render.ConversationItem(conv, current.UserID)
		if err != nil {
			s.fail(c, err)
			return
		}
		items = append(items, item)
	}

	c.HTML(http.StatusOK, "conversations", gin.H{"Title": "Messages", "Items": items})
}

func (s *Server) Conversation(c *gin.Context) {
	current := s.currentSession(c)
	if current == nil {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/messages")
		return
	}

	view := &pageView{}
	ctrl := controller.NewConversationController(s.client, view, s.pagePoller("messages"), current.UserID)
	if err := ctrl.Select(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	// server-side rendering is one fetch per request; the browser
	// re-requests the page instead of the controller polling
	ctrl.Close()

	c.HTML(http.StatusOK, "conversation", gin.H{
		"Title":          "Conversation",
		"OtherName":      view.conversation.Other(current.UserID).Name,
		"ConversationID": id,
		"Bubbles":        view.bubbles,
	})
}

func (s *Server) SendMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/messages")
		return
	}
	content := c.PostForm("content")
	if content == "" {
		c.Redirect(http.StatusFound, "/messages/"+c.Param("id"))
		return
	}

	if _, err := s.client.SendMessage(c.Request.Context(), id, content); err != nil {
		s.fail(c, err)
		return
	}

	// post-redirect-get re-fetches the transcript after the write
	c.Redirect(http.StatusFound, "/messages/"+c.Param("id"))
}

func (s *Server) pagePoller(name string) *poller.Poller {
	// per-request controllers never start their pollers; the interval
	// only has to be a sane value
	return poller.New(name, time.Minute, s.logger)
}
