package graphql

// Query and mutation documents sent to the authoring endpoint.
const (
	RenderingInfoQuery = `
query GetRenderingInfo($where: ItemQueryInput!) {
  item(where: $where) {
    itemId
    name
    displayName
    path
    datasourceLocation: field(name: "Datasource Location") { value }
    datasourceTemplate: field(name: "Datasource Template") { value }
  }
}`

	TemplateFieldsQuery = `
query GetTemplateFields($where: ItemQueryInput!) {
  item(where: $where) {
    itemId
    name
    path
    children {
      nodes {
        name
        children {
          nodes {
            itemId
            name
            shortDescription: field(name: "__Short description") { value }
            longDescription: field(name: "__Long description") { value }
            fields(excludeStandardFields: false) {
              nodes { name value }
            }
          }
        }
      }
    }
  }
}`

	BaseTemplatesQuery = `
query BaseTemplatesByID($database: String!, $templateId: ID!) {
  itemTemplate(where: { database: $database, templateId: $templateId }) {
    name
    fullName
    templateId
    baseTemplates {
      edges {
        node {
          name
          fullName
          templateId
        }
      }
    }
  }
}`

	TemplateChildrenQuery = `
query TemplateChildren($where: ItemQueryInput!, $layoutField: String!) {
  item(where: $where) {
    path
    children {
      nodes {
        name
        displayName
        itemId
        path
        template {
          name
          standardValuesItem(language: "en") {
            name
            field(name: $layoutField) { value }
          }
        }
        children {
          nodes {
            name
            displayName
            itemId
            template {
              name
              standardValuesItem(language: "en") {
                name
                field(name: $layoutField) { value }
              }
            }
          }
        }
      }
    }
  }
}`

	ItemIDByPathQuery = `
query ItemIDByPath($where: ItemQueryInput!) {
  item(where: $where) {
    itemId
    name
    displayName
  }
}`

	ItemFieldQuery = `
query ItemField($where: ItemQueryInput!, $field: String!) {
  item(where: $where) {
    itemId
    field(name: $field) { value }
  }
}`

	UpdateFieldMutation = `
mutation UpdateItemField($itemId: ID!, $language: String!, $field: String!, $value: String!) {
  updateItem(input: { itemId: $itemId, language: $language, fields: [{ name: $field, value: $value }] }) {
    item {
      itemId
      name
    }
  }
}`

	CreateItemMutation = `
mutation CreateItemFromTemplate($name: String!, $parentId: ID!, $templateId: ID!, $language: String!, $fields: [FieldValueInput!]) {
  createItem(input: { name: $name, parent: $parentId, templateId: $templateId, language: $language, fields: $fields }) {
    item {
      itemId
      name
      displayName
      path
      template { name fullName }
    }
  }
}`
)
