// internal/storefront/types.go
package storefront

// GraphQL documents for the Storefront cart API. Line items are capped
// at 100 per fetch, far beyond what a human-paced cart reaches.

const createCartMutation = `
mutation cartCreate {
  cartCreate {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}`

const fetchCartQuery = `
query cart($cartId: ID!) {
  cart(id: $cartId) {
    id
    checkoutUrl
    totalQuantity
    lines(first: 100) {
      edges {
        node {
          id
          quantity
          merchandise {
            ... on ProductVariant {
              id
              title
              price {
                amount
              }
              compareAtPrice {
                amount
              }
              image {
                url
              }
              product {
                title
              }
            }
          }
        }
      }
    }
  }
}`

const addLinesMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const updateLinesMutation = `
mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const removeLinesMutation = `
mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const listProductsQuery = `
query products($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        description
        featuredImage {
          url
        }
        variants(first: 1) {
          edges {
            node {
              id
              price {
                amount
              }
              compareAtPrice {
                amount
              }
            }
          }
        }
      }
    }
  }
}`

const fetchProductQuery = `
query product($id: ID!) {
  product(id: $id) {
    id
    title
    description
    featuredImage {
      url
    }
    variants(first: 1) {
      edges {
        node {
          id
          price {
            amount
          }
          compareAtPrice {
            amount
          }
        }
      }
    }
  }
}`

// Wire shapes

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type moneyPayload struct {
	Amount string `json:"amount"`
}

type imagePayload struct {
	URL string `json:"url"`
}

type productPayload struct {
	Title string `json:"title"`
}

type merchandisePayload struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Price          moneyPayload    `json:"price"`
	CompareAtPrice *moneyPayload   `json:"compareAtPrice"`
	Image          *imagePayload   `json:"image"`
	Product        *productPayload `json:"product"`
}

type linePayload struct {
	ID          string             `json:"id"`
	Quantity    int                `json:"quantity"`
	Merchandise merchandisePayload `json:"merchandise"`
}

type cartPayload struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Lines         struct {
		Edges []struct {
			Node linePayload `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type variantPayload struct {
	ID             string        `json:"id"`
	Price          moneyPayload  `json:"price"`
	CompareAtPrice *moneyPayload `json:"compareAtPrice"`
}

type productNodePayload struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	FeaturedImage *imagePayload `json:"featuredImage"`
	Variants      struct {
		Edges []struct {
			Node variantPayload `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type mutationPayload struct {
	Cart *struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}
