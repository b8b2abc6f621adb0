package render

// The fragment markup mirrors the class names the Agriport stylesheets
// already use, so the web view drops into the existing CSS.

const fragmentSource = `
{{define "notification_item"}}<div class="notification-item {{.StateClass}}" data-id="{{.Notification.ID}}" data-type="{{.Notification.Type}}">
  <div class="notification-content">
    <div class="notification-title">{{.Notification.Title}}</div>
    <div class="notification-message">{{.Notification.Message}}</div>
    <div class="notification-time">{{.When}}</div>
  </div>
</div>{{end}}

{{define "conversation_item"}}<div class="conversation-item" data-id="{{.Conversation.ID}}">
  <div class="conversation-name">{{.Other.Name}}</div>
  <div class="conversation-preview">{{.Conversation.LastMessage}}</div>
  {{if gt .Conversation.UnreadCount 0}}<span class="conversation-unread">{{.Conversation.UnreadCount}}</span>{{end}}
</div>{{end}}

{{define "message_bubble"}}<div class="message-bubble {{.DirectionClass}}" data-id="{{.Message.ID}}">
  <div class="message-content">{{.Message.Content}}</div>
  <div class="message-time">{{.When}}</div>
</div>{{end}}

{{define "product_card"}}<div class="product-card{{if .Product.IsUrgent}} urgent{{end}}" data-id="{{.Product.ID}}">
  {{if .Product.ImageURL}}<img class="product-image" src="{{.Product.ImageURL}}" alt="{{.Product.Name}}">{{end}}
  <div class="product-name">{{.Product.Name}}</div>
  <div class="product-farmer">{{.Product.FarmerName}}</div>
  <div class="product-price">{{.Price}} / {{.Product.Unit}}</div>
  <div class="product-description">{{.Product.Description}}</div>
</div>{{end}}

{{define "reservation_row"}}<tr class="reservation-row status-{{.Reservation.Status}}" data-id="{{.Reservation.ID}}">
  <td class="reservation-product">{{.Reservation.ProductName}}</td>
  <td class="reservation-quantity">{{.Reservation.Quantity}}</td>
  <td class="reservation-total">{{.Total}}</td>
  <td class="reservation-status">{{.Reservation.Status}}</td>
  <td class="reservation-time">{{.When}}</td>
</tr>{{end}}
`
