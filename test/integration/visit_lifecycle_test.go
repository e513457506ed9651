package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/bakery/internal/abtest"
	"github.com/vladislavdragonenkov/bakery/internal/catalog"
	"github.com/vladislavdragonenkov/bakery/internal/chat"
	"github.com/vladislavdragonenkov/bakery/internal/delivery"
	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/forms"
	"github.com/vladislavdragonenkov/bakery/internal/session"
	"github.com/vladislavdragonenkov/bakery/internal/storage/memory"
)

// VisitLifecycleTestSuite тестирует полный путь посетителя витрины.
type VisitLifecycleTestSuite struct {
	suite.Suite
	storage    domain.SlotStorage
	sessions   *session.Manager
	catalog    *catalog.Catalog
	calculator *delivery.Calculator
	forms      *forms.Service
}

func (suite *VisitLifecycleTestSuite) SetupTest() {
	suite.storage = memory.NewSlotStore()
	suite.sessions = session.NewManager(
		suite.storage,
		abtest.NewAssigner(suite.storage, nil),
		session.WithChatOptions(
			chat.WithNudgeDelay(time.Hour),
			chat.WithReplyDelay(time.Millisecond),
		),
	)
	suite.catalog = catalog.New()
	suite.calculator = delivery.NewCalculator(domain.DefaultPricing())
	suite.forms = forms.NewService(nil, suite.catalog)
}

func (suite *VisitLifecycleTestSuite) TestFullVisit() {
	ctx := context.Background()

	sess, created := suite.sessions.GetOrCreate(ctx, "")
	suite.True(created)
	suite.Contains([]abtest.Group{abtest.GroupA, abtest.GroupB}, sess.ABGroup)

	// Посетитель собирает корзину из каталога.
	for _, name := range []string{"Торт Нежность", "Капкейки Радуга"} {
		product, err := suite.catalog.Get(name)
		suite.Require().NoError(err)
		_, err = sess.Cart.AddItem(ctx, product.Name, product.PriceMinor)
		suite.Require().NoError(err)
	}
	suite.Equal(2, sess.Cart.ItemCount())
	suite.Equal(int64(65_00), sess.Cart.TotalMinor())

	// Считает доставку: до бесплатной не хватает 35 BYN.
	quote, err := suite.calculator.QuoteFor(sess.Cart.TotalMinor())
	suite.Require().NoError(err)
	suite.Equal(int64(5_00), quote.DeliveryCostMinor)
	suite.Equal(int64(35_00), suite.calculator.RemainingMinor(sess.Cart.TotalMinor()))

	// Сравнивает два торта.
	_, err = sess.Compare.Toggle("Торт Нежность")
	suite.Require().NoError(err)
	_, err = sess.Compare.Toggle("Торт Медовый рай")
	suite.Require().NoError(err)

	table, err := suite.catalog.CompareTable(sess.Compare.Snapshot())
	suite.Require().NoError(err)
	suite.Len(table, 3)

	// Задает вопрос в чате и дожидается ответа бота.
	_, err = sess.Chat.SelectQuestion(ctx, chat.QuestionDelivery)
	suite.Require().NoError(err)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(sess.Chat.Transcript()) < 2 {
		time.Sleep(5 * time.Millisecond)
	}
	suite.GreaterOrEqual(len(sess.Chat.Transcript()), 2)

	// Оформляет заявку.
	fields, err := suite.forms.SubmitOrder(ctx, domain.OrderForm{
		Name:    "Анна",
		Phone:   "+375 29 123 45 67",
		Email:   "anna@example.com",
		Product: "Торт Нежность",
	})
	suite.Require().NoError(err)
	suite.Empty(fields)

	// Аналитика накопила события визита.
	sess.Analytics.Record(ctx, "page_engagement", map[string]any{"seconds": 42})
	suite.NotEmpty(sess.Analytics.Events())
}

func (suite *VisitLifecycleTestSuite) TestStateSurvivesRestart() {
	ctx := context.Background()

	sess, _ := suite.sessions.GetOrCreate(ctx, "returning-visitor")
	_, err := sess.Cart.AddItem(ctx, "Яблочный пирог", 32_00)
	suite.Require().NoError(err)
	group := sess.ABGroup

	// Новый менеджер поверх того же хранилища — рестарт сервиса.
	restarted := session.NewManager(
		suite.storage,
		abtest.NewAssigner(suite.storage, nil),
		session.WithChatOptions(chat.WithNudgeDelay(time.Hour)),
	)
	restored, created := restarted.GetOrCreate(ctx, "returning-visitor")
	suite.True(created)
	suite.Equal(int64(32_00), restored.Cart.TotalMinor())
	suite.Equal(group, restored.ABGroup)
}

func (suite *VisitLifecycleTestSuite) TestSessionEndLeavesNoState() {
	ctx := context.Background()

	sess, _ := suite.sessions.GetOrCreate(ctx, "visitor")
	_, err := sess.Cart.AddItem(ctx, "Овсяное печенье", 15_00)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.sessions.End(ctx, sess.ID))

	_, found, err := suite.storage.Load(ctx, domain.SessionSlot("visitor", domain.SlotCart))
	suite.Require().NoError(err)
	suite.False(found)
}

func TestVisitLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(VisitLifecycleTestSuite))
}

func TestDeliveryThresholdsEndToEnd(t *testing.T) {
	calculator := delivery.NewCalculator(domain.DefaultPricing())

	quote, err := calculator.QuoteFor(100_00)
	require.NoError(t, err)
	require.Zero(t, quote.DeliveryCostMinor)

	_, err = calculator.QuoteFor(9_99)
	require.ErrorIs(t, err, domain.ErrBelowMinOrder)

	_, err = calculator.QuoteFor(1000_01)
	require.ErrorIs(t, err, domain.ErrAboveMaxOrder)
}
