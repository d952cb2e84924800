package notify

import (
	"bytes"
	"context"
	"domainkeeper/internal/queue"
	"domainkeeper/internal/types"
	"domainkeeper/logger"
	"errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sort"
	"strings"
	"text/template"
)

const BuyMailSubject = "Domains purchase request"

var ErrNoRecipients = errors.New("recipients cannot be empty")

var buyMailTemplate = template.Must(template.New("buy").Parse(`The following domains have to be purchased:
{{range .}}
{{.Type}}:
{{range .Rows}}  - {{.Name}}
    cname: {{.CName}}
    alter cname: {{.AlterCName}}
    type: {{.Type}}
    config: {{.Config}}
{{end}}{{end}}`))

type (
	BuyMailRow struct {
		Name       string
		CName      string
		AlterCName string
		Type       string
		Config     string
	}

	BuyMailGroup struct {
		Type string
		Rows []BuyMailRow
	}

	Notifier struct {
		dispatcher queue.Dispatcher
		mailer     Mailer
		from       string
		recipients []string
		cc         []string
	}
)

// NewNotifier takes recipient lists as comma separated addresses
func NewNotifier(dispatcher queue.Dispatcher, mailer Mailer, from, recipients, cc string) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		mailer:     mailer,
		from:       from,
		recipients: SplitAddresses(recipients),
		cc:         SplitAddresses(cc),
	}
}

func SplitAddresses(list string) []string {
	return lo.Compact(lo.Map(strings.Split(list, ","), func(item string, index int) string {
		return strings.TrimSpace(item)
	}))
}

// SendBuyDomainEmail queues a purchase request for domains. Failures are logged, the
// caller never sees them.
func (n *Notifier) SendBuyDomainEmail(ctx context.Context, domains ...*types.Domain) {
	if len(domains) == 0 {
		return
	}
	if len(n.recipients) == 0 {
		logger.Error("failed to send buy domain email", zap.Error(ErrNoRecipients))
		return
	}

	body, err := BuyMailBody(domains)
	if err != nil {
		logger.Error("failed to render buy domain email", zap.Error(err))
		return
	}

	msg := Message{
		From:    n.from,
		To:      n.recipients,
		CC:      n.cc,
		Subject: BuyMailSubject,
		Body:    body,
	}
	if err := n.dispatcher.Dispatch(NewSendMailJob(n.mailer, msg)); err != nil {
		logger.Error("failed to queue buy domain email",
			zap.Strings("domains", lo.Map(domains, func(item *types.Domain, index int) string {
				return item.Name
			})),
			zap.Error(err))
	}
}

// BuyMailBody lists domains grouped by type
func BuyMailBody(domains []*types.Domain) (string, error) {
	grouped := lo.GroupBy(domains, func(item *types.Domain) string {
		return item.Type.String()
	})

	groups := make([]BuyMailGroup, 0, len(grouped))
	for domainType, items := range grouped {
		groups = append(groups, BuyMailGroup{
			Type: domainType,
			Rows: lo.Map(items, func(item *types.Domain, index int) BuyMailRow {
				row := BuyMailRow{Name: item.Name, Type: item.Type.String()}
				if item.Configuration != nil {
					row.CName = item.Configuration.CName
					row.AlterCName = item.Configuration.AlterCName
					row.Config = item.Configuration.Name
				}
				return row
			}),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Type < groups[j].Type
	})

	var b bytes.Buffer
	if err := buyMailTemplate.Execute(&b, groups); err != nil {
		return "", err
	}
	return b.String(), nil
}
