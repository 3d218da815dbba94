package report

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"storedash/internal/domain/model"

	"github.com/olekukonko/tablewriter"
)

const (
	timeLayout      = "2006-01-02 15:04"
	maxProductsText = 48
)

// 一覧の見出し
var orderHeader = []string{"ID", "STATUS", "PAID", "BUYER", "TOTAL", "PRODUCTS", "CREATED"}

// OrderRows は注文一覧の表の行を作る。
func OrderRows(orders []model.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			string(o.Status),
			strconv.FormatBool(o.IsPaid),
			buyerLabel(o),
			o.TotalPrice().StringFixed(2),
			truncateText(o.ProductNames(), maxProductsText),
			o.CreatedAt.UTC().Format(timeLayout),
		})
	}
	return rows
}

// WriteOrders は注文一覧を表で出す。最後に件数と売上合計（支払い済みのみ）。
func WriteOrders(w io.Writer, orders []model.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(orderHeader)...)
	if err := table.Bulk(OrderRows(orders)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	paid := 0
	revenue := model.Order{}
	for _, o := range orders {
		if !o.IsPaid {
			continue
		}
		paid++
		revenue.OrderItems = append(revenue.OrderItems, o.OrderItems...)
	}
	_, err := fmt.Fprintf(w, "orders=%d paid=%d revenue=%s\n", len(orders), paid, revenue.TotalPrice().StringFixed(2))
	return err
}

// OrderDetail は -order 指定時に出す1注文分の情報
type OrderDetail struct {
	Order model.Order
	Items []model.OrderItem
	Buyer *model.User
	Form  *model.ShipmentForm
}

// WriteOrderDetail は注文の概要・明細・配送フォームを順に出す。
func WriteOrderDetail(w io.Writer, d OrderDetail) error {
	o := d.Order
	buyer := buyerLabel(o)
	if d.Buyer != nil {
		buyer = fmt.Sprintf("%s <%s>", d.Buyer.Name, d.Buyer.Email)
	}
	if _, err := fmt.Fprintf(w,
		"order:   %s\nstore:   %s\nstatus:  %s\npaid:    %t\nbuyer:   %s\naddress: %s\nphone:   %s\ncreated: %s\n\n",
		o.ID, o.StoreID, o.Status, o.IsPaid, buyer, o.Address, o.Phone, o.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return err
	}

	items := tablewriter.NewWriter(w)
	items.Header("PRODUCT ID", "NAME", "PRICE")
	total := model.Order{OrderItems: d.Items}
	for _, it := range d.Items {
		pid := "-"
		if it.ProductID != nil {
			pid = *it.ProductID
		}
		if err := items.Append([]string{pid, it.ProductName, it.ProductPrice.StringFixed(2)}); err != nil {
			return err
		}
	}
	items.Footer("", "TOTAL", total.TotalPrice().StringFixed(2))
	if err := items.Render(); err != nil {
		return err
	}

	if d.Form == nil {
		_, err := fmt.Fprintln(w, "\nshipment form: none")
		return err
	}
	f := d.Form
	_, err := fmt.Fprintf(w,
		"\nshipment form:\n  sender:    %s (%s)\n  recipient: %s (%s)\n  address:   %s\n  notes:     %s\n",
		f.SenderName, f.SenderPhone, f.RecipientName, f.RecipientPhone, f.RecipientAddress, f.AdditionalNotes,
	)
	return err
}

func buyerLabel(o model.Order) string {
	if o.UserName == "" && o.UserEmail == "" {
		return "-"
	}
	if o.UserEmail == "" {
		return o.UserName
	}
	return fmt.Sprintf("%s <%s>", o.UserName, o.UserEmail)
}

// 長い商品名の列を丸める（マルチバイトを壊さない）
func truncateText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

