package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/team6/oms-dashboard/internal/draft"
	"github.com/team6/oms-dashboard/internal/notify"
	"github.com/team6/oms-dashboard/internal/registry"
)

// dashboard is the line-oriented stand-in for the web UI: it renders the
// order list and the draft form, and turns every outcome into a transient
// notification instead of aborting.
type dashboard struct {
	session *registry.Session
	notices *notify.Center
	in      io.Reader
	out     io.Writer

	// submitting approximates at-most-one-concurrent-submit: the submit
	// command is refused while a previous one has not come back. Advisory
	// only, the session does not enforce it.
	submitting bool
}

func newDashboard(session *registry.Session, notices *notify.Center, in io.Reader, out io.Writer) *dashboard {
	return &dashboard{session: session, notices: notices, in: in, out: out}
}

const usage = `commands:
  list                          refresh and show the order list
  show <orderId>                show one order in detail
  draft                         show the current draft
  set <field> <value...>        set a draft field (customer-id, prename, name,
                                street, city, zip, country)
  add                           append a blank line item
  item <n> <product> <qty> <price>   fill line item n (1-based)
  rm <n>                        remove line item n
  total                         show the derived total
  submit                        submit the draft
  cancel <orderId>              request cancellation
  reset                         clear the draft
  quit`

func (d *dashboard) run(ctx context.Context) error {
	fmt.Fprintln(d.out, "OMS dashboard, type 'help' for commands")
	d.renderOrders()

	sc := bufio.NewScanner(d.in)
	for {
		d.renderNotice()
		fmt.Fprint(d.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(d.out, usage)
		case "list":
			d.refresh(ctx)
		case "show":
			d.show(args)
		case "draft":
			d.renderDraft()
		case "set":
			d.setField(args)
		case "add":
			d.session.Draft().AddItem()
			d.renderDraft()
		case "item":
			d.fillItem(args)
		case "rm":
			d.removeItem(args)
		case "total":
			fmt.Fprintf(d.out, "total: %s\n", d.session.Draft().Total().StringFixed(2))
		case "submit":
			d.submit(ctx)
		case "cancel":
			d.cancel(ctx, args)
		case "reset":
			d.session.Draft().Reset()
			fmt.Fprintln(d.out, "draft cleared")
		default:
			fmt.Fprintf(d.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (d *dashboard) refresh(ctx context.Context) {
	if err := d.session.Refresh(ctx); err != nil {
		d.notices.Error(err.Error())
		return
	}
	d.renderOrders()
}

func (d *dashboard) show(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: show <orderId>")
		return
	}
	o, ok := d.session.Order(args[0])
	if !ok {
		fmt.Fprintf(d.out, "no local order %s, try 'list' first\n", args[0])
		return
	}
	fmt.Fprintf(d.out, "%s  %s  %s %s, %s\n", o.OrderID, o.Status, o.Customer.Prename, o.Customer.Name, o.ShippingAddress.City)
	for _, it := range o.Items {
		fmt.Fprintf(d.out, "  %-12s x%-3d %10s  = %s\n", it.ProductID, it.Quantity, it.Price.StringFixed(2), it.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(d.out, "  total %s\n", o.TotalAmount.StringFixed(2))
}

func (d *dashboard) setField(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "usage: set <field> <value...>")
		return
	}
	b := d.session.Draft()
	value := strings.Join(args[1:], " ")
	switch args[0] {
	case "customer-id":
		b.SetCustomerID(value)
	case "prename":
		b.SetPrename(value)
	case "name":
		b.SetName(value)
	case "street":
		b.SetStreet(value)
	case "city":
		b.SetCity(value)
	case "zip":
		b.SetZipCode(value)
	case "country":
		b.SetCountry(value)
	default:
		fmt.Fprintf(d.out, "unknown field %q\n", args[0])
		return
	}
	fmt.Fprintf(d.out, "submittable: %v, total: %s\n", b.Submittable(), b.Total().StringFixed(2))
}

func (d *dashboard) fillItem(args []string) {
	if len(args) != 4 {
		fmt.Fprintln(d.out, "usage: item <n> <product> <qty> <price>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(d.out, "bad index %q\n", args[0])
		return
	}
	in := draft.ItemInput{ProductID: args[1], Quantity: args[2], Price: args[3]}
	if err := d.session.Draft().UpdateItem(idx-1, in); err != nil {
		fmt.Fprintln(d.out, err.Error())
		return
	}
	d.renderDraft()
}

func (d *dashboard) removeItem(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: rm <n>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(d.out, "bad index %q\n", args[0])
		return
	}
	if err := d.session.Draft().RemoveItem(idx - 1); err != nil {
		fmt.Fprintln(d.out, err.Error())
		return
	}
	d.renderDraft()
}

func (d *dashboard) submit(ctx context.Context) {
	if d.submitting {
		fmt.Fprintln(d.out, "a submission is already in flight")
		return
	}
	d.submitting = true
	defer func() { d.submitting = false }()

	created, err := d.session.Submit(ctx)
	if err != nil {
		var verr *registry.ValidationError
		if errors.As(err, &verr) {
			d.notices.Error("draft not submittable: " + verr.Error())
		} else {
			d.notices.Error(err.Error())
		}
		return
	}
	d.notices.Success("order created: " + created.OrderID)
	d.renderOrders()
}

func (d *dashboard) cancel(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: cancel <orderId>")
		return
	}
	updated, err := d.session.Cancel(ctx, args[0])
	if err != nil {
		d.notices.Error(err.Error())
		return
	}
	d.notices.Success("order cancelled: " + updated.OrderID)
	d.renderOrders()
}

func (d *dashboard) renderOrders() {
	orders := d.session.Orders()
	if len(orders) == 0 {
		fmt.Fprintln(d.out, "no orders yet")
		return
	}
	for _, o := range orders {
		marker := " "
		if !o.Status.Cancellable() {
			marker = "*" // cancel no longer possible
		}
		fmt.Fprintf(d.out, "%s %-24s %-10s %-20s %2d item(s) %10s\n",
			marker, o.OrderID, o.Status, o.Customer.Prename+" "+o.Customer.Name, len(o.Items), o.TotalAmount.StringFixed(2))
	}
}

func (d *dashboard) renderDraft() {
	b := d.session.Draft()
	c, a := b.Customer(), b.Address()
	fmt.Fprintf(d.out, "customer: %s %s %s\n", c.CustomerID, c.Prename, c.Name)
	fmt.Fprintf(d.out, "address:  %s, %s %s, %s\n", a.Street, a.ZipCode, a.City, a.Country)
	for i, it := range b.Items() {
		fmt.Fprintf(d.out, "  %d) %-12s qty=%-4s price=%s\n", i+1, it.ProductID, it.Quantity, it.Price)
	}
	fmt.Fprintf(d.out, "total: %s  submittable: %v\n", b.Total().StringFixed(2), b.Submittable())
}

func (d *dashboard) renderNotice() {
	if n, ok := d.notices.Current(); ok {
		fmt.Fprintf(d.out, "[%s] %s\n", n.Kind, n.Message)
	}
}
